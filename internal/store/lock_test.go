package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockTryAcquireAndRelease(t *testing.T) {
	s := NewLockStore()
	ctx := context.Background()

	require.NoError(t, s.TryAcquire(ctx, "user-1", "session-1"))
	require.ErrorIs(t, s.TryAcquire(ctx, "user-1", "session-2"), ErrBuildInProgress)

	sessionID, held := s.Active(ctx, "user-1")
	require.True(t, held)
	require.Equal(t, "session-1", sessionID)

	// Other users are independent.
	require.NoError(t, s.TryAcquire(ctx, "user-2", "session-3"))

	s.Release(ctx, "user-1")
	_, held = s.Active(ctx, "user-1")
	require.False(t, held)

	require.NoError(t, s.TryAcquire(ctx, "user-1", "session-4"))
}

func TestLockReleaseIdempotent(t *testing.T) {
	s := NewLockStore()
	ctx := context.Background()

	s.Release(ctx, "never-locked")
	require.NoError(t, s.TryAcquire(ctx, "never-locked", "session-1"))
	s.Release(ctx, "never-locked")
	s.Release(ctx, "never-locked")
}

func TestLockConcurrentAcquireSingleWinner(t *testing.T) {
	s := NewLockStore()
	ctx := context.Background()

	const attempts = 64
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.TryAcquire(ctx, "user-1", "session")
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ErrBuildInProgress)
			losses++
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, attempts-1, losses)
}
