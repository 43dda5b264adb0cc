package fluentdoc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/subspace-lab/fluentdoc"
)

func TestSession_Established(t *testing.T) {
	t.Parallel()

	var nilSession *fluentdoc.Session
	assert.False(t, nilSession.Established())

	s := &fluentdoc.Session{State: fluentdoc.StateUninitialized}
	assert.False(t, s.Established())

	s.State = fluentdoc.StateEstablished
	assert.True(t, s.Established())

	s.State = fluentdoc.StateBlocked
	assert.False(t, s.Established())
}

func TestSession_MarkBlocked_KeepsFirstBlockTime(t *testing.T) {
	t.Parallel()

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	s := &fluentdoc.Session{State: fluentdoc.StateEstablished}
	s.MarkBlocked(first)
	s.MarkBlocked(later)

	assert.Equal(t, fluentdoc.StateBlocked, s.State)
	assert.Equal(t, first, s.BlockedSince)
}

func TestSession_IdleFor(t *testing.T) {
	t.Parallel()

	established := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &fluentdoc.Session{
		State:         fluentdoc.StateEstablished,
		EstablishedAt: established,
	}

	// Without activity, idle time counts from establishment.
	assert.Equal(t, 5*time.Minute, s.IdleFor(established.Add(5*time.Minute)))

	s.MarkActive(established.Add(4 * time.Minute))
	assert.Equal(t, time.Minute, s.IdleFor(established.Add(5*time.Minute)))
}
