package mock

import (
	"context"

	"github.com/subspace-lab/fluentdoc"
)

var _ fluentdoc.SessionManager = (*SessionManager)(nil)

// SessionManager is a mock implementation of fluentdoc.SessionManager.
type SessionManager struct {
	EstablishFn         func(ctx context.Context) (*fluentdoc.Session, error)
	EnsureEstablishedFn func(ctx context.Context, session *fluentdoc.Session) error
	TeardownFn          func(session *fluentdoc.Session) error
}

func (m *SessionManager) Establish(ctx context.Context) (*fluentdoc.Session, error) {
	return m.EstablishFn(ctx)
}

func (m *SessionManager) EnsureEstablished(ctx context.Context, session *fluentdoc.Session) error {
	return m.EnsureEstablishedFn(ctx, session)
}

func (m *SessionManager) Teardown(session *fluentdoc.Session) error {
	return m.TeardownFn(session)
}
