package services

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/physicistcolloh-png/base43/internal/mq"
	"github.com/physicistcolloh-png/base43/internal/storage"
	"github.com/physicistcolloh-png/base43/internal/store"
	"github.com/physicistcolloh-png/base43/types"
	"github.com/stretchr/testify/require"
)

type buildFixture struct {
	users    *UserService
	builds   *BuildService
	sessions *store.SessionStore
	locks    *store.LockStore
	exports  *storage.MemoryBackend
}

func newBuildFixture(t *testing.T) *buildFixture {
	t.Helper()
	userStore := store.NewUserStore()
	sessions := store.NewSessionStore()
	locks := store.NewLockStore()
	exports := storage.NewMemoryBackend("test-exports")

	users := NewUserService(userStore)
	builds := NewBuildService(
		users,
		sessions,
		locks,
		mq.New(mq.NewMemoryBackend()),
		storage.NewStorage(exports),
		"https://base43.dev/upgrade",
	)
	return &buildFixture{users: users, builds: builds, sessions: sessions, locks: locks, exports: exports}
}

func (f *buildFixture) register(t *testing.T, email string) types.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), email, strings.Split(email, "@")[0], "hash")
	require.NoError(t, err)
	return user
}

func TestStartBuildLifecycle(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice@x.com")

	// First build admits and consumes one build and one interaction.
	first, steps, err := f.builds.StartBuild(ctx, user.ID, "Todo App", "a todo app", "auth, persistence")
	require.NoError(t, err)
	require.Equal(t, types.StatusInitializing, first.Status)
	require.Equal(t, ProgressStepNames, steps)

	got, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.BuildCount)
	require.Equal(t, 1, got.InteractionsUsed)

	// A second start while the first is live conflicts and names the
	// active session, without burning quota.
	_, _, err = f.builds.StartBuild(ctx, user.ID, "Other App", "", "")
	var conflict *BuildInProgressError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, first.ID, conflict.ActiveSessionID)

	got, err = f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.BuildCount)

	// Cancelling frees the slot and removes the session.
	require.NoError(t, f.builds.CancelBuild(ctx, first.ID, user.ID))
	_, ok := f.builds.ActiveBuild(ctx, user.ID)
	require.False(t, ok)
	_, err = f.builds.GetSession(ctx, first.ID, user.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Third start succeeds on the freed slot.
	second, _, err := f.builds.StartBuild(ctx, user.ID, "Todo App", "take two", "")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	// The free tier is now exhausted: quota, not conflict.
	require.NoError(t, f.builds.CancelBuild(ctx, second.ID, user.ID))
	_, _, err = f.builds.StartBuild(ctx, user.ID, "Todo App", "take three", "")
	var quota *QuotaExceededError
	require.ErrorAs(t, err, &quota)
	require.Equal(t, "https://base43.dev/upgrade", quota.UpgradeURL)
}

func TestStartBuildQuotaBeforeLock(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	user := f.register(t, "bob@x.com")

	first, _, err := f.builds.StartBuild(ctx, user.ID, "App", "", "")
	require.NoError(t, err)
	require.NoError(t, f.builds.CancelBuild(ctx, first.ID, user.ID))

	_, _, err = f.builds.StartBuild(ctx, user.ID, "App", "", "")
	require.NoError(t, err)

	// Quota is checked ahead of the lock: the exhausted user sees
	// QuotaExceeded even though their slot is still held.
	_, _, err = f.builds.StartBuild(ctx, user.ID, "App", "", "")
	var quota *QuotaExceededError
	require.ErrorAs(t, err, &quota)
}

func TestStartBuildConcurrentSingleWinner(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	user, err := f.users.Register(ctx, "carol@x.com", "carol", "hash")
	require.NoError(t, err)
	_, err = f.users.Upgrade(ctx, user.ID, types.TierProfessional)
	require.NoError(t, err)

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = f.builds.StartBuild(ctx, user.ID, "App", "", "")
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		var conflict *BuildInProgressError
		require.ErrorAs(t, err, &conflict)
		lost++
	}
	require.Equal(t, 1, won)
	require.Equal(t, n-1, lost)

	got, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.BuildCount)
	require.Equal(t, 1, got.InteractionsUsed)
}

func TestStartBuildUnknownUser(t *testing.T) {
	f := newBuildFixture(t)
	_, _, err := f.builds.StartBuild(context.Background(), "missing", "App", "", "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpgradeResetsQuota(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	user := f.register(t, "dave@x.com")

	for i := 0; i < 2; i++ {
		session, _, err := f.builds.StartBuild(ctx, user.ID, "App", "", "")
		require.NoError(t, err)
		require.NoError(t, f.builds.CancelBuild(ctx, session.ID, user.ID))
	}
	_, _, err := f.builds.StartBuild(ctx, user.ID, "App", "", "")
	var quota *QuotaExceededError
	require.ErrorAs(t, err, &quota)

	_, err = f.users.Upgrade(ctx, user.ID, types.TierStarter)
	require.NoError(t, err)

	_, _, err = f.builds.StartBuild(ctx, user.ID, "App", "", "")
	require.NoError(t, err)
}

func TestCompletedBuildKeepsLock(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	user := f.register(t, "erin@x.com")

	session, _, err := f.builds.StartBuild(ctx, user.ID, "App", "", "")
	require.NoError(t, err)

	_, err = f.builds.SetStatus(ctx, session.ID, user.ID, types.StatusCompleted)
	require.NoError(t, err)

	// Completion keeps the slot; the user must cancel to free it.
	active, ok := f.builds.ActiveBuild(ctx, user.ID)
	require.True(t, ok)
	require.Equal(t, session.ID, active.ID)

	require.NoError(t, f.builds.CancelBuild(ctx, session.ID, user.ID))
	_, ok = f.builds.ActiveBuild(ctx, user.ID)
	require.False(t, ok)
}

func TestCancelBuildOwnership(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	owner := f.register(t, "frank@x.com")
	other := f.register(t, "grace@x.com")

	session, _, err := f.builds.StartBuild(ctx, owner.ID, "App", "", "")
	require.NoError(t, err)

	err = f.builds.CancelBuild(ctx, session.ID, other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// The owner's slot is untouched.
	active, ok := f.builds.ActiveBuild(ctx, owner.ID)
	require.True(t, ok)
	require.Equal(t, session.ID, active.ID)
}

func TestSessionMutationOwnership(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	owner := f.register(t, "holly@x.com")
	other := f.register(t, "ivan@x.com")

	session, steps, err := f.builds.StartBuild(ctx, owner.ID, "App", "", "")
	require.NoError(t, err)

	// Another user touching the session reads as not-found everywhere.
	_, err = f.builds.GetSession(ctx, session.ID, other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.builds.AddProgressStep(ctx, session.ID, other.ID, steps[0])
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.builds.SetStatus(ctx, session.ID, other.ID, types.StatusCompleted)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.builds.GenerateCode(ctx, session.ID, other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Nothing leaked through: the session is untouched and still live.
	got, err := f.builds.GetSession(ctx, session.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusInitializing, got.Status)
	require.Empty(t, got.Steps)
	require.Empty(t, got.GeneratedCode.Frontend)

	// The owner can still drive it.
	_, err = f.builds.SetStatus(ctx, session.ID, owner.ID, types.StatusCompleted)
	require.NoError(t, err)
}

func TestActiveBuildMissingSession(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	user := f.register(t, "mia@x.com")

	session, _, err := f.builds.StartBuild(ctx, user.ID, "App", "", "")
	require.NoError(t, err)

	// Force lock/session divergence.
	f.sessions.Delete(ctx, session.ID)

	_, ok := f.builds.ActiveBuild(ctx, user.ID)
	require.False(t, ok)
}

func TestAddProgressStepAndStatus(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()
	user := f.register(t, "heidi@x.com")

	session, steps, err := f.builds.StartBuild(ctx, user.ID, "App", "", "")
	require.NoError(t, err)

	for _, name := range steps[:3] {
		session, err = f.builds.AddProgressStep(ctx, session.ID, user.ID, name)
		require.NoError(t, err)
	}
	require.Len(t, session.Steps, 3)
	require.Equal(t, steps[0], session.Steps[0].Name)

	session, err = f.builds.SetStatus(ctx, session.ID, user.ID, types.StatusGeneratingFrontend)
	require.NoError(t, err)
	require.Equal(t, types.StatusGeneratingFrontend, session.Status)

	_, err = f.builds.SetStatus(ctx, session.ID, user.ID, types.StatusInitializing)
	require.ErrorIs(t, err, store.ErrInvalidTransition)
}

func TestGenerateCodeWatermark(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()

	free := f.register(t, "ivy@x.com")
	session, _, err := f.builds.StartBuild(ctx, free.ID, "Todo App", "a todo app", "")
	require.NoError(t, err)

	code, err := f.builds.GenerateCode(ctx, session.ID, free.ID)
	require.NoError(t, err)
	require.Contains(t, code.Frontend, "Built with base43")
	require.Contains(t, code.Frontend, "TodoApp")

	stored, err := f.builds.GetSession(ctx, session.ID, free.ID)
	require.NoError(t, err)
	require.Equal(t, code.Frontend, stored.GeneratedCode.Frontend)
	require.Equal(t, code.Backend, stored.GeneratedCode.Backend)

	// Paid tiers generate clean output.
	paid, err := f.users.Register(ctx, "judy@x.com", "judy", "hash")
	require.NoError(t, err)
	_, err = f.users.Upgrade(ctx, paid.ID, types.TierStarter)
	require.NoError(t, err)

	paidSession, _, err := f.builds.StartBuild(ctx, paid.ID, "Shop", "", "")
	require.NoError(t, err)
	paidCode, err := f.builds.GenerateCode(ctx, paidSession.ID, paid.ID)
	require.NoError(t, err)
	require.NotContains(t, paidCode.Frontend, "Built with base43")
}

func TestExportBuild(t *testing.T) {
	f := newBuildFixture(t)
	ctx := context.Background()

	free := f.register(t, "ken@x.com")
	session, _, err := f.builds.StartBuild(ctx, free.ID, "App", "", "")
	require.NoError(t, err)

	// Downloads are a paid entitlement.
	_, err = f.builds.ExportBuild(ctx, session.ID, free.ID)
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	_, err = f.users.Upgrade(ctx, free.ID, types.TierProfessional)
	require.NoError(t, err)

	key, err := f.builds.ExportBuild(ctx, session.ID, free.ID)
	require.NoError(t, err)
	require.Equal(t, "exports/"+session.ID+".tar.gz", key)

	obj, err := f.exports.Get(ctx, key)
	require.NoError(t, err)
	defer obj.Close()

	gz, err := gzip.NewReader(obj)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
		_, err = io.Copy(io.Discard, tr)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"App.jsx", "server.js", "Dockerfile", ".env.example"}, names)

	// Exporting someone else's session reads as not-found.
	other := f.register(t, "liam@x.com")
	_, err = f.builds.ExportBuild(ctx, session.ID, other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
