package mock

import "github.com/subspace-lab/fluentdoc"

var _ fluentdoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of fluentdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
