// Package bloom provides a probabilistic seen-set for TOC walk
// deduplication. A Bloom filter may report a never-visited page as seen
// (and the walk will skip it), but never the reverse, so a walk gated on
// it terminates. Anything needing exact membership, like snapshot path
// uniqueness, must use a map instead.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet records which page URLs a walk has already visited.
type SeenSet struct {
	f *bloom.BloomFilter
}

// NewSeenSet creates a SeenSet sized for n expected URLs with the given
// false positive rate.
func NewSeenSet(n uint, fpRate float64) *SeenSet {
	return &SeenSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add marks a URL as visited.
func (s *SeenSet) Add(url string) {
	s.f.AddString(url)
}

// Seen reports whether the URL was (probably) visited before. False
// positives are possible; false negatives are not.
func (s *SeenSet) Seen(url string) bool {
	return s.f.TestString(url)
}

// ApproxLen returns the approximate number of URLs recorded.
func (s *SeenSet) ApproxLen() uint {
	return uint(s.f.ApproximatedSize())
}
