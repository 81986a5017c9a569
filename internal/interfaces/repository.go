package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/cafebot/internal/domain"
)

// Repository interfaces (Adapter/Postgres, Adapter/SQLite, Adapter/Redis)
type OrderRepository interface {
	// Create stores the order and sets its ID
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListRecent returns up to limit orders, newest first
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
}

// OrderCheckout stores an order and deletes its user's session in one
// transaction (Adapter/Postgres with database-backed sessions)
type OrderCheckout interface {
	CreateAndDeleteSession(ctx context.Context, order *domain.Order) error
}

// SessionRepository persists dialogue state. Save is an upsert and the most
// recent Save wins.
type SessionRepository interface {
	// Load returns domain.ErrSessionNotFound when nothing is stored
	Load(ctx context.Context, userID int64) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	// Delete is a no-op for unknown users
	Delete(ctx context.Context, userID int64) error
}

type ErrorLogRepository interface {
	Record(ctx context.Context, entry domain.ErrorLogEntry) error
}

// UnlockFunc releases a lock taken by UserLocker
type UnlockFunc func(ctx context.Context) error

// UserLocker serializes turns of one user across goroutines or replicas
type UserLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
