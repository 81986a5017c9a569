package memory

import (
	"context"
	"sync"

	"github.com/YelzhanWeb/cafebot/internal/domain"
)

// SessionStore keeps sessions in process memory. Safe for concurrent use;
// state is lost on restart.
type SessionStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[int64]*domain.Session),
	}
}

// Save stores a deep copy so the caller cannot mutate stored state
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	copied := session.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[session.UserID] = copied
	return nil
}

func (s *SessionStore) Load(ctx context.Context, userID int64) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *SessionStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// Len reports the number of stored sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
