package fluentdoc

import (
	"context"
	"time"
)

// Retrieval sources.
const (
	SourcePrimary = "primary"
	SourceMirror  = "mirror"
)

// Retrieval records the outcome of one completed fetch. Bodies are not
// stored; the checksum is enough to tell whether a section changed
// between fetches of the same path.
type Retrieval struct {
	ID        string        `json:"id"`
	Guide     Guide         `json:"guide"`
	Version   string        `json:"version"`
	Path      string        `json:"path"`
	URL       string        `json:"url"`
	Source    string        `json:"source"`  // "primary" or "mirror"
	Outcome   string        `json:"outcome"` // "succeeded" or an error code
	Checksum  string        `json:"checksum"`
	Bytes     int           `json:"bytes"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Validate returns an error if the retrieval contains invalid fields.
func (r *Retrieval) Validate() error {
	if !r.Guide.Valid() {
		return Errorf(EINVALID, "retrieval guide required")
	}
	if r.Path == "" {
		return Errorf(EINVALID, "retrieval path required")
	}
	if r.Outcome == "" {
		return Errorf(EINVALID, "retrieval outcome required")
	}
	return nil
}

// HistoryService records and reads retrieval outcomes.
type HistoryService interface {
	// RecordRetrieval persists a completed retrieval.
	RecordRetrieval(ctx context.Context, retrieval *Retrieval) error

	// RecentRetrievals returns the most recent retrievals, newest first.
	RecentRetrievals(ctx context.Context, limit int) ([]*Retrieval, error)

	// PathRetrievals returns retrievals of one content path, newest first.
	PathRetrievals(ctx context.Context, path string, limit int) ([]*Retrieval, error)
}
