package services

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/physicistcolloh-png/base43/internal/codegen"
	"github.com/physicistcolloh-png/base43/internal/metrics"
	"github.com/physicistcolloh-png/base43/internal/mq"
	"github.com/physicistcolloh-png/base43/internal/storage"
	"github.com/physicistcolloh-png/base43/internal/store"
	"github.com/physicistcolloh-png/base43/types"
	"github.com/rs/zerolog/log"
)

// ProgressStepNames is the canonical ordered list of build milestones
// returned to the caller on build start. The caller drives the session
// through these steps; the orchestrator runs no background timer.
var ProgressStepNames = []string{
	"Understanding requirements",
	"Initializing project",
	"Generating frontend",
	"Generating backend",
	"Showing integrations",
	"Rendering live preview",
	"Finalizing build",
}

// buildEventsTopic is the queue build lifecycle events are published to.
const buildEventsTopic = "build.events"

// SessionRepository defines persistence operations for build sessions.
type SessionRepository interface {
	Create(ctx context.Context, session types.BuildSession) (types.BuildSession, error)
	Get(ctx context.Context, id string) (types.BuildSession, error)
	AddProgressStep(ctx context.Context, id, stepName string) (types.BuildSession, error)
	SetStatus(ctx context.Context, id string, status types.SessionStatus) (types.BuildSession, error)
	AttachGeneratedCode(ctx context.Context, id, frontend, backend string) error
	AddSelectedIntegration(ctx context.Context, id string, integration types.Integration) error
	Delete(ctx context.Context, id string)
}

// LockRepository enforces the single-active-build-per-user rule.
type LockRepository interface {
	TryAcquire(ctx context.Context, userID, sessionID string) error
	Release(ctx context.Context, userID string)
	Active(ctx context.Context, userID string) (string, bool)
}

// BuildService is the build orchestrator. It ties the user registry,
// lock manager, and session store together: admission control on build
// start, caller-driven progress, cancellation, code generation, and app
// export.
type BuildService struct {
	users      *UserService
	sessions   SessionRepository
	locks      LockRepository
	events     *mq.MQ
	exports    *storage.Storage
	upgradeURL string

	// admission serializes StartBuild per user so the entitlement
	// check, lock acquire, and session creation act as one unit.
	mu        sync.Mutex
	admission map[string]*sync.Mutex
}

func NewBuildService(
	users *UserService,
	sessions SessionRepository,
	locks LockRepository,
	events *mq.MQ,
	exports *storage.Storage,
	upgradeURL string,
) *BuildService {
	return &BuildService{
		users:      users,
		sessions:   sessions,
		locks:      locks,
		events:     events,
		exports:    exports,
		upgradeURL: upgradeURL,
		admission:  make(map[string]*sync.Mutex),
	}
}

// buildEvent is the JSON payload published on session lifecycle changes.
type buildEvent struct {
	Kind      string              `json:"kind"`
	SessionID string              `json:"session_id"`
	UserID    string              `json:"user_id"`
	Status    types.SessionStatus `json:"status,omitempty"`
	Step      string              `json:"step,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// StartBuild admits a new build session for the user. Admission runs
// inside a per-user critical section: resolve the user, check the
// interaction and build quotas, acquire the build lock bound to a fresh
// session id, create the session, then bump the usage counters. On
// success it returns the session and the canonical progress step names.
func (s *BuildService) StartBuild(ctx context.Context, userID, appName, description, requirements string) (types.BuildSession, []string, error) {
	unlock := s.lockAdmission(userID)
	defer unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.BuildSession{}, nil, err
	}

	if !s.users.CanUseInteraction(ctx, user.ID) || !s.users.CanBuild(ctx, user.ID) {
		metrics.BuildsRejected.WithLabelValues("quota").Inc()
		return types.BuildSession{}, nil, &QuotaExceededError{UpgradeURL: s.upgradeURL}
	}

	sessionID := uuid.NewString()
	if err := s.locks.TryAcquire(ctx, user.ID, sessionID); err != nil {
		metrics.BuildsRejected.WithLabelValues("locked").Inc()
		active, _ := s.locks.Active(ctx, user.ID)
		return types.BuildSession{}, nil, &BuildInProgressError{ActiveSessionID: active}
	}

	session, err := s.sessions.Create(ctx, types.BuildSession{
		ID:           sessionID,
		UserID:       user.ID,
		AppName:      appName,
		Description:  description,
		Requirements: requirements,
	})
	if err != nil {
		// Lock and session must not diverge.
		s.locks.Release(ctx, user.ID)
		return types.BuildSession{}, nil, err
	}

	s.users.IncrementInteractionCount(ctx, user.ID)
	s.users.IncrementBuildCount(ctx, user.ID)

	metrics.BuildsStarted.Inc()
	s.publish(ctx, buildEvent{Kind: "build.started", SessionID: session.ID, UserID: user.ID, Status: session.Status})

	return session, ProgressStepNames, nil
}

// GetSession returns the session by id. The session must belong to the
// caller.
func (s *BuildService) GetSession(ctx context.Context, sessionID, userID string) (types.BuildSession, error) {
	return s.ownedSession(ctx, sessionID, userID)
}

// ActiveBuild returns the user's locked session, if one exists.
func (s *BuildService) ActiveBuild(ctx context.Context, userID string) (types.BuildSession, bool) {
	sessionID, ok := s.locks.Active(ctx, userID)
	if !ok {
		return types.BuildSession{}, false
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		// The lock and the session store have diverged; surface it
		// instead of swallowing it.
		log.Warn().
			Str("user_id", userID).
			Str("session_id", sessionID).
			Msg("build lock points at a missing session")
		return types.BuildSession{}, false
	}
	return session, true
}

// AddProgressStep appends a named milestone to the session history. The
// session must belong to the caller.
func (s *BuildService) AddProgressStep(ctx context.Context, sessionID, userID, stepName string) (types.BuildSession, error) {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return types.BuildSession{}, err
	}

	session, err := s.sessions.AddProgressStep(ctx, sessionID, stepName)
	if err != nil {
		return types.BuildSession{}, err
	}
	s.publish(ctx, buildEvent{Kind: "build.step", SessionID: session.ID, UserID: session.UserID, Step: stepName})
	return session, nil
}

// SetStatus advances the session's lifecycle state. The session must
// belong to the caller. The store rejects backward moves and exits from
// terminal states. Completion does not release the build lock; a
// completed build keeps its slot until the user cancels it.
func (s *BuildService) SetStatus(ctx context.Context, sessionID, userID string, status types.SessionStatus) (types.BuildSession, error) {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return types.BuildSession{}, err
	}

	session, err := s.sessions.SetStatus(ctx, sessionID, status)
	if err != nil {
		return types.BuildSession{}, err
	}
	if status == types.StatusCompleted {
		metrics.BuildsCompleted.Inc()
	}
	s.publish(ctx, buildEvent{Kind: "build.status", SessionID: session.ID, UserID: session.UserID, Status: status})
	return session, nil
}

// CancelBuild releases the user's lock and deletes the session. The
// session must belong to the caller. Cancellation is idempotent and
// permitted regardless of the session's current status.
func (s *BuildService) CancelBuild(ctx context.Context, sessionID, userID string) error {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return err
	}

	s.locks.Release(ctx, userID)
	s.sessions.Delete(ctx, sessionID)

	metrics.BuildsCancelled.Inc()
	s.publish(ctx, buildEvent{Kind: "build.cancelled", SessionID: sessionID, UserID: userID})
	return nil
}

// GenerateCode renders the frontend/backend pair for the session and
// attaches it. The session must belong to the caller; free-tier output
// carries the watermark.
func (s *BuildService) GenerateCode(ctx context.Context, sessionID, userID string) (types.GeneratedCode, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return types.GeneratedCode{}, err
	}

	watermark := s.users.HasWatermark(ctx, session.UserID)

	frontend, err := codegen.Frontend(session.AppName, session.Description, session.SelectedIntegrations, watermark)
	if err != nil {
		return types.GeneratedCode{}, err
	}
	backend, err := codegen.Backend(session.AppName, session.SelectedIntegrations, watermark)
	if err != nil {
		return types.GeneratedCode{}, err
	}

	if err := s.sessions.AttachGeneratedCode(ctx, sessionID, frontend, backend); err != nil {
		return types.GeneratedCode{}, err
	}
	return types.GeneratedCode{Frontend: frontend, Backend: backend}, nil
}

// ExportBuild archives the session's generated artifacts to object
// storage and returns the object key. Only tiers with the download
// entitlement may export.
func (s *BuildService) ExportBuild(ctx context.Context, sessionID, userID string) (string, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return "", err
	}

	limits, err := s.users.Limits(ctx, userID)
	if err != nil {
		return "", err
	}
	if !limits.CanDownloadApps {
		return "", &ForbiddenError{Reason: "your tier does not allow downloading apps"}
	}

	if session.GeneratedCode.Frontend == "" && session.GeneratedCode.Backend == "" {
		if _, err := s.GenerateCode(ctx, sessionID, userID); err != nil {
			return "", err
		}
		session, err = s.sessions.Get(ctx, sessionID)
		if err != nil {
			return "", err
		}
	}

	archive, err := buildArchive(session)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/%s.tar.gz", sessionID)
	if err := s.exports.Put(ctx, key, bytes.NewReader(archive), int64(len(archive)), "application/gzip"); err != nil {
		return "", err
	}
	return key, nil
}

// ownedSession resolves the session and checks it belongs to the caller.
// Ownership mismatches read as not-found so session ids cannot be probed.
func (s *BuildService) ownedSession(ctx context.Context, sessionID, userID string) (types.BuildSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return types.BuildSession{}, err
	}
	if session.UserID != userID {
		return types.BuildSession{}, store.ErrNotFound
	}
	return session, nil
}

func (s *BuildService) lockAdmission(userID string) func() {
	s.mu.Lock()
	m, ok := s.admission[userID]
	if !ok {
		m = &sync.Mutex{}
		s.admission[userID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// publish is best effort: a broker failure never fails the request.
func (s *BuildService) publish(ctx context.Context, event buildEvent) {
	if s.events == nil {
		return
	}
	event.Timestamp = time.Now()
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _ = s.events.Publish(ctx, buildEventsTopic, data, map[string]string{"kind": event.Kind})
}

func buildArchive(session types.BuildSession) ([]byte, error) {
	files := []struct {
		name string
		data string
	}{
		{"App.jsx", session.GeneratedCode.Frontend},
		{"server.js", session.GeneratedCode.Backend},
		{"Dockerfile", codegen.Dockerfile()},
		{".env.example", codegen.EnvFile()},
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, file := range files {
		hdr := &tar.Header{
			Name:    file.name,
			Mode:    0o644,
			Size:    int64(len(file.data)),
			ModTime: session.UpdatedAt,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := tw.Write([]byte(file.data)); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
