package mock

import (
	"context"

	"github.com/subspace-lab/fluentdoc"
)

var _ fluentdoc.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of fluentdoc.HistoryService.
type HistoryService struct {
	RecordRetrievalFn  func(ctx context.Context, retrieval *fluentdoc.Retrieval) error
	RecentRetrievalsFn func(ctx context.Context, limit int) ([]*fluentdoc.Retrieval, error)
	PathRetrievalsFn   func(ctx context.Context, path string, limit int) ([]*fluentdoc.Retrieval, error)
}

func (s *HistoryService) RecordRetrieval(ctx context.Context, retrieval *fluentdoc.Retrieval) error {
	return s.RecordRetrievalFn(ctx, retrieval)
}

func (s *HistoryService) RecentRetrievals(ctx context.Context, limit int) ([]*fluentdoc.Retrieval, error) {
	return s.RecentRetrievalsFn(ctx, limit)
}

func (s *HistoryService) PathRetrievals(ctx context.Context, path string, limit int) ([]*fluentdoc.Retrieval, error) {
	return s.PathRetrievalsFn(ctx, path, limit)
}
