package fluentdoc

// TocLink is a candidate sub-TOC page discovered while walking a guide's
// table of contents.
type TocLink struct {
	URL   string
	Text  string
	Depth int // walk depth from the guide root TOC page
}

// Frontier manages the TOC walk queue with deduplication. A page pushed
// twice is only visited once.
type Frontier interface {
	// Push adds a link to the frontier.
	// Returns false if the URL has already been seen.
	Push(link TocLink) bool

	// Pop returns the next link in first-seen order.
	// Returns false if the frontier is empty.
	Pop() (TocLink, bool)

	// Len returns the number of links in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}
