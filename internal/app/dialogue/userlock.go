package dialogue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

// lockEntry holds the mutex and the number of goroutines waiting on or holding it
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// UserLocks serializes turns per key inside the process. Entries are dropped
// once nobody references them. With a remote locker the turn is also
// serialized across replicas.
type UserLocks struct {
	mu     sync.Mutex
	locks  map[string]*lockEntry
	remote interfaces.UserLocker
}

// NewUserLocks creates the in-process lock table. remote may be nil.
func NewUserLocks(remote interfaces.UserLocker) *UserLocks {
	return &UserLocks{
		locks:  make(map[string]*lockEntry),
		remote: remote,
	}
}

func (l *UserLocks) acquire(key string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{}
		l.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (l *UserLocks) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(l.locks, key)
	}
}

// Lock blocks until key is free. The returned UnlockFunc must be called
// exactly once; later calls are ignored.
func (l *UserLocks) Lock(ctx context.Context, key string, ttl time.Duration) (interfaces.UnlockFunc, error) {
	entry := l.acquire(key)
	entry.mu.Lock()

	local := func() {
		entry.mu.Unlock()
		l.release(key)
	}

	var remoteUnlock interfaces.UnlockFunc
	if l.remote != nil {
		var err error
		remoteUnlock, err = l.remote.Lock(ctx, key, ttl)
		if err != nil {
			local()
			return nil, fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
	}

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			if remoteUnlock != nil {
				err = remoteUnlock(ctx)
			}
			local()
		})
		return err
	}, nil
}

// held reports how many keys currently have an entry
func (l *UserLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
