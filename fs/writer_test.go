package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/fs"
)

func TestFormatFragment(t *testing.T) {
	t.Parallel()

	frag := &fluentdoc.Fragment{
		URL:       "https://ansyshelp.ansys.com/public//Views/Secured/corp/v252/en/flu_th/flu_th_turb.html",
		Title:     "Turbulence",
		Text:      "Turbulent flows are characterized by fluctuating velocity fields.",
		Checksum:  "deadbeefdeadbeef",
		FetchedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	got := fs.FormatFragment(frag)

	assert.Contains(t, got, "---\nsource: https://ansyshelp.ansys.com")
	assert.Contains(t, got, "title: Turbulence")
	assert.Contains(t, got, "checksum: deadbeefdeadbeef")
	assert.Contains(t, got, "fetched: 2025-06-01")
	assert.Contains(t, got, "fluctuating velocity fields")
}

func TestWriteFragment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "turbulence.md")

	frag := &fluentdoc.Fragment{
		URL:       "https://example.com/flu_th/flu_th_turb.html",
		Title:     "Turbulence",
		Text:      "content",
		FetchedAt: time.Now(),
	}

	require.NoError(t, fs.WriteFragment(path, frag))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "content")
}

func TestWriteFragment_RejectsInvalidFragment(t *testing.T) {
	t.Parallel()

	frag := &fluentdoc.Fragment{URL: "https://example.com/x.html"}

	err := fs.WriteFragment(filepath.Join(t.TempDir(), "x.md"), frag)

	require.Error(t, err)
	assert.Equal(t, fluentdoc.EINVALID, fluentdoc.ErrorCode(err))
}
