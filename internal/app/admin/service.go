package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/app/order"
	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

// RecentLimit is how many orders the admin listing shows
const RecentLimit = 5

const (
	MsgNotAdmin = "Sorry, this command is only available to admins! 😊"
	MsgNoOrders = "No orders found."
)

// Service answers read-only admin queries over stored orders
type Service struct {
	orderRepo interfaces.OrderRepository
	admins    map[int64]bool
	logger    logger.Logger
}

func NewService(orderRepo interfaces.OrderRepository, adminIDs []int64, logger logger.Logger) *Service {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Service{
		orderRepo: orderRepo,
		admins:    admins,
		logger:    logger,
	}
}

func (s *Service) IsAdmin(userID int64) bool {
	return s.admins[userID]
}

// RecentOrders returns the newest orders first
func (s *Service) RecentOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListRecent(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

// Order returns domain.ErrOrderNotFound for unknown ids
func (s *Service) Order(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find order %d: %w", id, err)
	}
	return o, nil
}

func (s *Service) RecentOrdersText(ctx context.Context) (string, error) {
	orders, err := s.RecentOrders(ctx)
	if err != nil {
		return "", err
	}
	s.logger.Debug("orders_listed", "Recent orders listed", logger.RequestID(ctx), map[string]interface{}{
		"count": len(orders),
	})
	return FormatListing(orders), nil
}

// FormatListing renders orders for the /orders command
func FormatListing(orders []*domain.Order) string {
	if len(orders) == 0 {
		return MsgNoOrders
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent Orders (last %d):\n\n", RecentLimit)
	for _, o := range orders {
		fmt.Fprintf(&b, "Order ID: %d\n", o.ID)
		b.WriteString(order.Details(o))
		b.WriteString("\n" + strings.Repeat("-", 30) + "\n")
	}
	return b.String()
}
