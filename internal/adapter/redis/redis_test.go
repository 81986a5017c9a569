package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/cafebot/internal/adapter/redis"
	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces/contract"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionStore_Contract(t *testing.T) {
	_, client := newClient(t)
	contract.RunSessionRepositoryContract(t, redis.NewSessionStore(client))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewSessionStore(client, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession(5)))
	assert.True(t, mr.Exists("test:5"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"9", "{not json"))

	_, err := redis.NewSessionStore(client).Load(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrCorruptSession)
}

func TestLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "42", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:42"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:42"))
}

func TestLocker_Contention(t *testing.T) {
	_, client := newClient(t)
	first := redis.NewLocker(client, "test:")
	second := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := first.Lock(ctx, "42", 5*time.Second)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = second.Lock(short, "42", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := second.Lock(ctx, "42", 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, unlock2(ctx))
}

func TestLocker_ExpiredLockIsNotStolenBack(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "42", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	fresh, err := locker.Lock(ctx, "42", 5*time.Second)
	require.NoError(t, err)

	// the first holder's unlock must not release the second holder's lock
	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("test:lock:42"))
	assert.NoError(t, fresh(ctx))
}
