package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/subspace-lab/fluentdoc"
)

var _ fluentdoc.FrameNavigator = (*LoggingNavigator)(nil)

// LoggingNavigator wraps a FrameNavigator with debug logging.
type LoggingNavigator struct {
	next   fluentdoc.FrameNavigator
	logger *slog.Logger
}

// NewLoggingNavigator creates a new LoggingNavigator.
func NewLoggingNavigator(next fluentdoc.FrameNavigator, logger *slog.Logger) *LoggingNavigator {
	return &LoggingNavigator{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped navigator.
func (n *LoggingNavigator) Fetch(ctx context.Context, session *fluentdoc.Session, url string) (frag *fluentdoc.Fragment, err error) {
	defer func(begin time.Time) {
		size := 0
		if frag != nil {
			size = len(frag.Text)
		}
		n.logger.Info("fetch",
			"url", url,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Fetch(ctx, session, url)
}

// FetchHTML logs the URL being harvested and delegates to the wrapped navigator.
func (n *LoggingNavigator) FetchHTML(ctx context.Context, session *fluentdoc.Session, url string) (html string, err error) {
	defer func(begin time.Time) {
		n.logger.Info("fetch_html",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.FetchHTML(ctx, session, url)
}

var _ fluentdoc.SessionManager = (*LoggingSessionManager)(nil)

// LoggingSessionManager wraps a SessionManager with debug logging.
type LoggingSessionManager struct {
	next   fluentdoc.SessionManager
	logger *slog.Logger
}

// NewLoggingSessionManager creates a new LoggingSessionManager.
func NewLoggingSessionManager(next fluentdoc.SessionManager, logger *slog.Logger) *LoggingSessionManager {
	return &LoggingSessionManager{next: next, logger: logger}
}

// Establish logs the bootstrap outcome and delegates to the wrapped manager.
func (m *LoggingSessionManager) Establish(ctx context.Context) (session *fluentdoc.Session, err error) {
	defer func(begin time.Time) {
		m.logger.Info("session_establish",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Establish(ctx)
}

// EnsureEstablished delegates to the wrapped manager, logging only when a
// re-bootstrap actually happened or failed.
func (m *LoggingSessionManager) EnsureEstablished(ctx context.Context, session *fluentdoc.Session) (err error) {
	wasEstablished := session.Established()
	defer func(begin time.Time) {
		if wasEstablished && err == nil {
			return
		}
		m.logger.Info("session_ensure",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.EnsureEstablished(ctx, session)
}

// Teardown logs the teardown and delegates to the wrapped manager.
func (m *LoggingSessionManager) Teardown(session *fluentdoc.Session) error {
	err := m.next.Teardown(session)
	m.logger.Info("session_teardown", "err", err)
	return err
}
