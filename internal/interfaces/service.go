package interfaces

import (
	"context"

	"github.com/YelzhanWeb/cafebot/internal/domain"
)

// Service interfaces (Business Logic)
type DialogueService interface {
	// Start resumes a stored session or begins a new one
	Start(ctx context.Context, userID int64) []Reply
	// Cancel tears the session down regardless of its step
	Cancel(ctx context.Context, userID int64) []Reply
	// Restart discards any session and begins at the category prompt
	Restart(ctx context.Context, userID int64) []Reply
	// HandleText runs one dialogue turn
	HandleText(ctx context.Context, userID int64, text string) []Reply
}

type OrderFinalizer interface {
	Finalize(ctx context.Context, session *domain.Session) (*domain.Order, error)
}

type AdminService interface {
	IsAdmin(userID int64) bool
	RecentOrders(ctx context.Context) ([]*domain.Order, error)
	// Order returns domain.ErrOrderNotFound for unknown ids
	Order(ctx context.Context, id int64) (*domain.Order, error)
	// RecentOrdersText is the listing sent to admins
	RecentOrdersText(ctx context.Context) (string, error)
}

type RelayService interface {
	Deliver(ctx context.Context, msg StaffNotificationMessage) error
}
