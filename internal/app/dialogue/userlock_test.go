package dialogue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

func TestUserLocks_SerializesSameKey(t *testing.T) {
	locks := NewUserLocks(nil)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locks.Lock(ctx, "42", time.Second)
			require.NoError(t, err)

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			assert.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locks.held(), "entries are released when unused")
}

func TestUserLocks_DifferentKeysDoNotBlock(t *testing.T) {
	locks := NewUserLocks(nil)
	ctx := context.Background()

	unlockA, err := locks.Lock(ctx, "a", time.Second)
	require.NoError(t, err)
	defer unlockA(ctx)

	done := make(chan struct{})
	go func() {
		unlockB, err := locks.Lock(ctx, "b", time.Second)
		assert.NoError(t, err)
		_ = unlockB(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another key blocked")
	}
}

func TestUserLocks_UnlockTwiceIsSafe(t *testing.T) {
	locks := NewUserLocks(nil)
	ctx := context.Background()

	unlock, err := locks.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx))

	again, err := locks.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

type remoteLocker struct {
	err      error
	locked   []string
	unlocked int
}

func (r *remoteLocker) Lock(ctx context.Context, key string, ttl time.Duration) (interfaces.UnlockFunc, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.locked = append(r.locked, key)
	return func(ctx context.Context) error {
		r.unlocked++
		return nil
	}, nil
}

func TestUserLocks_UsesRemoteLocker(t *testing.T) {
	remote := &remoteLocker{}
	locks := NewUserLocks(remote)
	ctx := context.Background()

	unlock, err := locks.Lock(ctx, "7", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	assert.Equal(t, []string{"7"}, remote.locked)
	assert.Equal(t, 1, remote.unlocked)
}

func TestUserLocks_RemoteFailureReleasesLocal(t *testing.T) {
	remote := &remoteLocker{err: errors.New("redis down")}
	locks := NewUserLocks(remote)

	_, err := locks.Lock(context.Background(), "7", time.Second)
	assert.Error(t, err)
	assert.Equal(t, 0, locks.held())
}
