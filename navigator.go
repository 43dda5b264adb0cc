package fluentdoc

import "context"

// FrameNavigator drives an established session to a content URL and
// extracts what the portal's nested content frame renders.
//
// The content frame is a volatile lookup, not an owned resource: the
// portal invalidates its frame list on every page transition, so
// implementations must re-resolve the frame on each call and never cache
// a frame handle across navigations.
type FrameNavigator interface {
	// Fetch navigates the content frame to url and returns the extracted
	// text. The session must already be established; ENOTESTABLISHED is
	// returned otherwise, never a silent auto-bootstrap. A detected
	// access denial marks the session blocked and returns EBLOCKED; a
	// navigation that does not settle within the internal retry budget
	// returns ETIMEOUT.
	Fetch(ctx context.Context, session *Session, url string) (*Fragment, error)

	// FetchHTML is Fetch for the serialized frame DOM instead of the
	// rendered text. It exists for TOC harvesting and follows the same
	// session and frame discipline.
	FetchHTML(ctx context.Context, session *Session, url string) (string, error)
}
