package fluentdoc

// ExtractResult holds the section content pulled out of a mirror page.
type ExtractResult struct {
	// Title is the section title extracted from page metadata.
	Title string

	// ContentHTML is the section body as clean HTML, with the mirror's
	// navigation arrows, breadcrumbs, and footer stripped.
	ContentHTML string
}

// Extractor pulls the section body out of a raw mirror page. It is used
// on the mirror path only; portal pages arrive as rendered frame text and
// never pass through an Extractor.
type Extractor interface {
	// Extract processes raw HTML and returns the section content. The
	// title comes from page metadata; the content HTML has chrome removed
	// but keeps headings, tables, and code blocks.
	Extract(html string) (*ExtractResult, error)
}
