package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/subspace-lab/fluentdoc"
)

// Compile-time interface verification.
var _ fluentdoc.HistoryService = (*HistoryService)(nil)

// HistoryService implements fluentdoc.HistoryService using SQLite.
type HistoryService struct {
	db *DB
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db}
}

// RecordRetrieval persists a completed retrieval.
func (s *HistoryService) RecordRetrieval(ctx context.Context, r *fluentdoc.Retrieval) error {
	if err := r.Validate(); err != nil {
		return err
	}

	r.ID = uuid.New().String()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO retrievals (id, guide, version, path, url, source, outcome, checksum, bytes, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, string(r.Guide), r.Version, r.Path, r.URL, r.Source, r.Outcome, r.Checksum,
		r.Bytes, r.Duration.Milliseconds(), r.CreatedAt.Format(time.RFC3339))

	return err
}

// RecentRetrievals returns the most recent retrievals, newest first.
func (s *HistoryService) RecentRetrievals(ctx context.Context, limit int) ([]*fluentdoc.Retrieval, error) {
	return s.findRetrievals(ctx, "", limit)
}

// PathRetrievals returns retrievals of one content path, newest first.
func (s *HistoryService) PathRetrievals(ctx context.Context, path string, limit int) ([]*fluentdoc.Retrieval, error) {
	if path == "" {
		return nil, fluentdoc.Errorf(fluentdoc.EINVALID, "path required")
	}
	return s.findRetrievals(ctx, path, limit)
}

func (s *HistoryService) findRetrievals(ctx context.Context, path string, limit int) ([]*fluentdoc.Retrieval, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, guide, version, path, url, source, outcome, checksum, bytes, duration_ms, created_at
		FROM retrievals WHERE 1=1`)

	if path != "" {
		query.WriteString(" AND path = ?")
		args = append(args, path)
	}

	query.WriteString(" ORDER BY created_at DESC, id")

	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var retrievals []*fluentdoc.Retrieval
	for rows.Next() {
		var r fluentdoc.Retrieval
		var guide string
		var durationMS int64
		var createdAt string

		if err := rows.Scan(&r.ID, &guide, &r.Version, &r.Path, &r.URL, &r.Source,
			&r.Outcome, &r.Checksum, &r.Bytes, &durationMS, &createdAt); err != nil {
			return nil, err
		}

		r.Guide = fluentdoc.Guide(guide)
		r.Duration = time.Duration(durationMS) * time.Millisecond

		var parseErr error
		r.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", parseErr)
		}

		retrievals = append(retrievals, &r)
	}

	return retrievals, rows.Err()
}
