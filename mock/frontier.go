package mock

import "github.com/subspace-lab/fluentdoc"

var _ fluentdoc.Frontier = (*Frontier)(nil)

// Frontier is a mock implementation of fluentdoc.Frontier.
type Frontier struct {
	PushFn func(link fluentdoc.TocLink) bool
	PopFn  func() (fluentdoc.TocLink, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *Frontier) Push(link fluentdoc.TocLink) bool {
	return f.PushFn(link)
}

func (f *Frontier) Pop() (fluentdoc.TocLink, bool) {
	return f.PopFn()
}

func (f *Frontier) Len() int {
	return f.LenFn()
}

func (f *Frontier) Seen(url string) bool {
	return f.SeenFn(url)
}
