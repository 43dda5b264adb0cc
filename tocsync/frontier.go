package tocsync

import (
	"strings"
	"sync"

	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/bloom"
)

var _ fluentdoc.Frontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO link queue with Bloom filter
// deduplication. FIFO order keeps the walk breadth-first, which is what
// gives snapshots their stable document order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.SeenSet
	queue []fluentdoc.TocLink
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewSeenSet(n, fpRate)}
}

// Push adds a link to the frontier.
// Returns false if the URL has already been seen. URL fragments are
// stripped before deduplication - URLs differing only by fragment are
// considered duplicates.
func (f *Frontier) Push(link fluentdoc.TocLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(link.URL)
	if f.seen.Seen(url) {
		return false
	}
	f.seen.Add(url)

	link.URL = url
	f.queue = append(f.queue, link)
	return true
}

// Pop returns the next link in first-seen order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (fluentdoc.TocLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return fluentdoc.TocLink{}, false
	}
	link := f.queue[0]
	f.queue = f.queue[1:]
	return link, true
}

// Len returns the number of links in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been processed or queued.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Seen(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
