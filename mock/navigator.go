package mock

import (
	"context"

	"github.com/subspace-lab/fluentdoc"
)

var _ fluentdoc.FrameNavigator = (*FrameNavigator)(nil)

// FrameNavigator is a mock implementation of fluentdoc.FrameNavigator.
type FrameNavigator struct {
	FetchFn     func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error)
	FetchHTMLFn func(ctx context.Context, session *fluentdoc.Session, url string) (string, error)
}

func (n *FrameNavigator) Fetch(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
	return n.FetchFn(ctx, session, url)
}

func (n *FrameNavigator) FetchHTML(ctx context.Context, session *fluentdoc.Session, url string) (string, error) {
	return n.FetchHTMLFn(ctx, session, url)
}
