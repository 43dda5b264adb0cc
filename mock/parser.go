package mock

import "github.com/subspace-lab/fluentdoc"

var _ fluentdoc.TocParser = (*TocParser)(nil)

// TocParser is a mock implementation of fluentdoc.TocParser.
type TocParser struct {
	ParseLinksFn func(html, baseURL string, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, []fluentdoc.TocLink, error)
}

func (p *TocParser) ParseLinks(html, baseURL string, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, []fluentdoc.TocLink, error) {
	return p.ParseLinksFn(html, baseURL, guide, version)
}
