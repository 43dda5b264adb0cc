package mock

import "github.com/subspace-lab/fluentdoc"

var _ fluentdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of fluentdoc.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*fluentdoc.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*fluentdoc.ExtractResult, error) {
	return e.ExtractFn(html)
}
