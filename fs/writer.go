package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/subspace-lab/fluentdoc"
)

// FormatFragment formats a fetched fragment with YAML frontmatter.
func FormatFragment(frag *fluentdoc.Fragment) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(frag.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(frag.Title)
	b.WriteString("\nchecksum: ")
	b.WriteString(frag.Checksum)
	b.WriteString("\nfetched: ")
	b.WriteString(frag.FetchedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(frag.Text)
	return b.String()
}

// WriteFragment writes a fragment to path with frontmatter, creating
// parent directories as needed.
func WriteFragment(path string, frag *fluentdoc.Fragment) error {
	if err := frag.Validate(); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, []byte(FormatFragment(frag)), 0644)
}
