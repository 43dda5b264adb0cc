package fluentdoc

import "context"

// MirrorFetcher retrieves documentation pages from the unauthenticated
// mirror. It is used only as a last resort after the primary source's
// retry budget is exhausted.
type MirrorFetcher interface {
	// FetchMirror downloads and extracts the page at a mirror URL.
	// Returns ENOTFOUND if the mirror does not have the page and
	// EUNAVAILABLE if the mirror itself fails.
	FetchMirror(ctx context.Context, url string) (*Fragment, error)
}
