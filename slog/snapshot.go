// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/subspace-lab/fluentdoc"
)

var _ fluentdoc.SnapshotStore = (*LoggingSnapshotStore)(nil)

// LoggingSnapshotStore wraps a SnapshotStore with debug logging.
type LoggingSnapshotStore struct {
	next   fluentdoc.SnapshotStore
	logger *slog.Logger
}

// NewLoggingSnapshotStore creates a new LoggingSnapshotStore.
func NewLoggingSnapshotStore(next fluentdoc.SnapshotStore, logger *slog.Logger) *LoggingSnapshotStore {
	return &LoggingSnapshotStore{next: next, logger: logger}
}

// Load logs the snapshot being loaded and delegates to the wrapped store.
func (s *LoggingSnapshotStore) Load(ctx context.Context, guide fluentdoc.Guide, version string) (entries []fluentdoc.TocEntry, err error) {
	defer func(begin time.Time) {
		s.logger.Info("snapshot_load",
			"guide", string(guide),
			"version", version,
			"entries", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, guide, version)
}

// Save logs the snapshot being saved and delegates to the wrapped store.
func (s *LoggingSnapshotStore) Save(ctx context.Context, guide fluentdoc.Guide, version string, entries []fluentdoc.TocEntry) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("snapshot_save",
			"guide", string(guide),
			"version", version,
			"entries", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, guide, version, entries)
}

// Path delegates to the wrapped store.
func (s *LoggingSnapshotStore) Path(guide fluentdoc.Guide, version string) string {
	return s.next.Path(guide, version)
}
