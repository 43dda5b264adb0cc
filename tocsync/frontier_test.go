package tocsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/tocsync"
)

func TestFrontier_PushPop_FIFO(t *testing.T) {
	t.Parallel()

	f := tocsync.NewFrontier(1000, 0.01)

	assert.True(t, f.Push(fluentdoc.TocLink{URL: "https://example.com/a", Depth: 1}))
	assert.True(t, f.Push(fluentdoc.TocLink{URL: "https://example.com/b", Depth: 1}))
	assert.True(t, f.Push(fluentdoc.TocLink{URL: "https://example.com/c", Depth: 2}))
	assert.Equal(t, 3, f.Len())

	first, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a", first.URL)

	second, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/b", second.URL)

	third, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/c", third.URL)
	assert.Equal(t, 2, third.Depth)

	_, ok = f.Pop()
	assert.False(t, ok)
}

func TestFrontier_Push_Deduplicates(t *testing.T) {
	t.Parallel()

	f := tocsync.NewFrontier(1000, 0.01)

	assert.True(t, f.Push(fluentdoc.TocLink{URL: "https://example.com/toc"}))
	assert.False(t, f.Push(fluentdoc.TocLink{URL: "https://example.com/toc"}))
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Push_StripsFragments(t *testing.T) {
	t.Parallel()

	f := tocsync.NewFrontier(1000, 0.01)

	assert.True(t, f.Push(fluentdoc.TocLink{URL: "https://example.com/toc#section-4"}))
	assert.False(t, f.Push(fluentdoc.TocLink{URL: "https://example.com/toc#section-5"}))

	link, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/toc", link.URL)
}

func TestFrontier_Seen(t *testing.T) {
	t.Parallel()

	f := tocsync.NewFrontier(1000, 0.01)

	assert.False(t, f.Seen("https://example.com/toc"))
	f.Push(fluentdoc.TocLink{URL: "https://example.com/toc"})
	assert.True(t, f.Seen("https://example.com/toc"))
	assert.True(t, f.Seen("https://example.com/toc#anywhere"))

	// Popping does not forget: seen gates revisits for the whole walk.
	f.Pop()
	assert.True(t, f.Seen("https://example.com/toc"))
}
