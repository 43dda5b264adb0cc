package fluentdoc

// Converter renders clean section HTML as Markdown-ish plain text. It is
// the last step of the mirror path, making mirror output comparable to
// the text the frame navigator extracts from the portal.
type Converter interface {
	// Convert transforms HTML content into Markdown. The input should be
	// extracted section HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}
