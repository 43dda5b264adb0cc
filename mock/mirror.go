package mock

import (
	"context"

	"github.com/subspace-lab/fluentdoc"
)

var _ fluentdoc.MirrorFetcher = (*MirrorFetcher)(nil)

// MirrorFetcher is a mock implementation of fluentdoc.MirrorFetcher.
type MirrorFetcher struct {
	FetchMirrorFn func(ctx context.Context, url string) (*fluentdoc.Fragment, error)
}

func (f *MirrorFetcher) FetchMirror(ctx context.Context, url string) (*fluentdoc.Fragment, error) {
	return f.FetchMirrorFn(ctx, url)
}
