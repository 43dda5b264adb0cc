package mock

import (
	"context"

	"github.com/subspace-lab/fluentdoc"
)

var _ fluentdoc.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of fluentdoc.SnapshotStore.
type SnapshotStore struct {
	LoadFn func(ctx context.Context, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, error)
	SaveFn func(ctx context.Context, guide fluentdoc.Guide, version string, entries []fluentdoc.TocEntry) error
	PathFn func(guide fluentdoc.Guide, version string) string
}

func (s *SnapshotStore) Load(ctx context.Context, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, error) {
	return s.LoadFn(ctx, guide, version)
}

func (s *SnapshotStore) Save(ctx context.Context, guide fluentdoc.Guide, version string, entries []fluentdoc.TocEntry) error {
	return s.SaveFn(ctx, guide, version, entries)
}

func (s *SnapshotStore) Path(guide fluentdoc.Guide, version string) string {
	return s.PathFn(guide, version)
}
