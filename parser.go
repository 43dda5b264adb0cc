package fluentdoc

// TocParser harvests TOC entries from the HTML of a guide TOC page.
type TocParser interface {
	// ParseLinks parses the serialized frame DOM of a TOC page and
	// returns the section entries it lists, in document order, together
	// with candidate sub-TOC pages to walk next. The baseURL is the page
	// the HTML was fetched from; relative hrefs are resolved against it.
	ParseLinks(html, baseURL string, guide Guide, version string) ([]TocEntry, []TocLink, error)
}
