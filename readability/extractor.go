package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/subspace-lab/fluentdoc"
)

// Ensure Extractor implements fluentdoc.Extractor at compile time.
var _ fluentdoc.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*fluentdoc.ExtractResult, error) {
	if rawHTML == "" {
		return nil, fluentdoc.Errorf(fluentdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &fluentdoc.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
