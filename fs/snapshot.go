// Package fs provides file-based storage for TOC snapshots and fetched
// document fragments.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/subspace-lab/fluentdoc"
)

// Ensure SnapshotStore implements fluentdoc.SnapshotStore at compile time.
var _ fluentdoc.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persists TOC snapshots as JSON files, one per
// (guide, version), named like "theory_toc_v252.json". Snapshots are
// readable without network access.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a SnapshotStore rooted at dir.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// snapshotRecord is the on-disk shape of one TOC entry. Guide and version
// are implied by the file name and restored on load.
type snapshotRecord struct {
	Number string `json:"number,omitempty"`
	Title  string `json:"title"`
	Path   string `json:"path"`
	Depth  int    `json:"depth"`
	Parent string `json:"parentPath,omitempty"`
}

// Path returns the snapshot file location for a guide and version.
func (s *SnapshotStore) Path(guide fluentdoc.Guide, version string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_toc_%s.json", guide, version))
}

// Load reads the snapshot entries for a guide and version in TOC order.
// Returns EUNAVAILABLE if no snapshot file exists.
func (s *SnapshotStore) Load(ctx context.Context, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(guide, version)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE,
			"no TOC snapshot for %s %s (expected %s); run tocsync to generate one", guide, version, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var records []snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	entries := make([]fluentdoc.TocEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, fluentdoc.TocEntry{
			Guide:      guide,
			Version:    version,
			Number:     rec.Number,
			Title:      rec.Title,
			Path:       rec.Path,
			Depth:      rec.Depth,
			ParentPath: rec.Parent,
		})
	}
	return entries, nil
}

// Save replaces the snapshot for a guide and version wholesale. The file
// is written to a temporary location and renamed into place so a crashed
// sync never leaves a truncated snapshot behind.
func (s *SnapshotStore) Save(ctx context.Context, guide fluentdoc.Guide, version string, entries []fluentdoc.TocEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make([]snapshotRecord, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		records = append(records, snapshotRecord{
			Number: entry.Number,
			Title:  entry.Title,
			Path:   entry.Path,
			Depth:  entry.Depth,
			Parent: entry.ParentPath,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	path := s.Path(guide, version)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
