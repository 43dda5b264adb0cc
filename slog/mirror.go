package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/subspace-lab/fluentdoc"
)

var _ fluentdoc.MirrorFetcher = (*LoggingMirrorFetcher)(nil)

// LoggingMirrorFetcher wraps a MirrorFetcher with debug logging.
type LoggingMirrorFetcher struct {
	next   fluentdoc.MirrorFetcher
	logger *slog.Logger
}

// NewLoggingMirrorFetcher creates a new LoggingMirrorFetcher.
func NewLoggingMirrorFetcher(next fluentdoc.MirrorFetcher, logger *slog.Logger) *LoggingMirrorFetcher {
	return &LoggingMirrorFetcher{next: next, logger: logger}
}

// FetchMirror logs the mirror URL being fetched and delegates to the
// wrapped fetcher.
func (f *LoggingMirrorFetcher) FetchMirror(ctx context.Context, url string) (frag *fluentdoc.Fragment, err error) {
	defer func(begin time.Time) {
		size := 0
		if frag != nil {
			size = len(frag.Text)
		}
		f.logger.Info("mirror_fetch",
			"url", url,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchMirror(ctx, url)
}
