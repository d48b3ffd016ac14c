package store

import (
	"context"
	"testing"

	"github.com/physicistcolloh-png/base43/types"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, s *SessionStore) types.BuildSession {
	t.Helper()
	session, err := s.Create(context.Background(), types.BuildSession{
		ID:      "session-1",
		UserID:  "user-1",
		AppName: "Todo",
	})
	require.NoError(t, err)
	return session
}

func TestSessionCreateDefaults(t *testing.T) {
	s := NewSessionStore()
	session := newTestSession(t, s)

	require.Equal(t, types.StatusInitializing, session.Status)
	require.Empty(t, session.Steps)
	require.Empty(t, session.SelectedIntegrations)
	require.False(t, session.CreatedAt.IsZero())
}

func TestSessionGetNotFound(t *testing.T) {
	s := NewSessionStore()
	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionAddProgressStep(t *testing.T) {
	s := NewSessionStore()
	session := newTestSession(t, s)

	updated, err := s.AddProgressStep(context.Background(), session.ID, "Understanding requirements")
	require.NoError(t, err)
	require.Len(t, updated.Steps, 1)
	require.Equal(t, "Understanding requirements", updated.Steps[0].Name)
	require.False(t, updated.Steps[0].Timestamp.IsZero())

	_, err = s.AddProgressStep(context.Background(), "missing", "step")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStatusForwardOnly(t *testing.T) {
	s := NewSessionStore()
	session := newTestSession(t, s)
	ctx := context.Background()

	// Walk the full forward sequence.
	for _, status := range []types.SessionStatus{
		types.StatusGeneratingFrontend,
		types.StatusGeneratingBackend,
		types.StatusIntegrating,
		types.StatusPreviewing,
		types.StatusCompleted,
	} {
		updated, err := s.SetStatus(ctx, session.ID, status)
		require.NoError(t, err, "transition to %s", status)
		require.Equal(t, status, updated.Status)
	}

	// Completed is terminal.
	_, err := s.SetStatus(ctx, session.ID, types.StatusError)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSessionStatusRejectsBackward(t *testing.T) {
	s := NewSessionStore()
	session := newTestSession(t, s)
	ctx := context.Background()

	_, err := s.SetStatus(ctx, session.ID, types.StatusIntegrating)
	require.NoError(t, err)

	_, err = s.SetStatus(ctx, session.ID, types.StatusGeneratingFrontend)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.SetStatus(ctx, session.ID, types.StatusIntegrating)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSessionStatusForwardSkipsPermitted(t *testing.T) {
	s := NewSessionStore()
	session := newTestSession(t, s)

	updated, err := s.SetStatus(context.Background(), session.ID, types.StatusPreviewing)
	require.NoError(t, err)
	require.Equal(t, types.StatusPreviewing, updated.Status)
}

func TestSessionErrorFromAnyNonTerminalState(t *testing.T) {
	s := NewSessionStore()
	session := newTestSession(t, s)
	ctx := context.Background()

	_, err := s.SetStatus(ctx, session.ID, types.StatusGeneratingBackend)
	require.NoError(t, err)

	updated, err := s.SetStatus(ctx, session.ID, types.StatusError)
	require.NoError(t, err)
	require.Equal(t, types.StatusError, updated.Status)

	// Error is terminal too.
	_, err = s.SetStatus(ctx, session.ID, types.StatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSessionAttachCodeAndIntegrations(t *testing.T) {
	s := NewSessionStore()
	session := newTestSession(t, s)
	ctx := context.Background()

	require.NoError(t, s.AttachGeneratedCode(ctx, session.ID, "frontend", "backend"))
	require.ErrorIs(t, s.AttachGeneratedCode(ctx, "missing", "f", "b"), ErrNotFound)

	first := types.Integration{ID: "stripe", Name: "Stripe"}
	second := types.Integration{ID: "twilio", Name: "Twilio"}
	require.NoError(t, s.AddSelectedIntegration(ctx, session.ID, first))
	require.NoError(t, s.AddSelectedIntegration(ctx, session.ID, second))

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, "frontend", got.GeneratedCode.Frontend)
	require.Equal(t, []types.Integration{first, second}, got.SelectedIntegrations)
}

func TestSessionDeleteIdempotent(t *testing.T) {
	s := NewSessionStore()
	session := newTestSession(t, s)
	ctx := context.Background()

	s.Delete(ctx, session.ID)
	_, err := s.Get(ctx, session.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Second delete is a no-op.
	s.Delete(ctx, session.ID)
}
