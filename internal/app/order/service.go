package order

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
	"github.com/YelzhanWeb/cafebot/internal/metrics"
)

// Service turns a confirmed session into a stored order
type Service struct {
	orders      interfaces.OrderRepository
	checkout    interfaces.OrderCheckout
	sessions    interfaces.SessionRepository
	notifier    interfaces.StaffNotifier
	errorLog    interfaces.ErrorLogRepository
	staff       []int64
	cafeAddress string
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCheckout stores the order and deletes the session in one transaction
func WithCheckout(c interfaces.OrderCheckout) Option {
	return func(s *Service) {
		s.checkout = c
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	orders interfaces.OrderRepository,
	sessions interfaces.SessionRepository,
	notifier interfaces.StaffNotifier,
	errorLog interfaces.ErrorLogRepository,
	staff []int64,
	cafeAddress string,
	logger logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		orders:      orders,
		sessions:    sessions,
		notifier:    notifier,
		errorLog:    errorLog,
		staff:       staff,
		cafeAddress: cafeAddress,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Finalize persists the order, tells staff about it and deletes the session.
// An error means nothing was stored. Staff notification is best effort.
func (s *Service) Finalize(ctx context.Context, session *domain.Session) (*domain.Order, error) {
	requestID := logger.RequestID(ctx)

	// 1. Snapshot the session (validation and total happen here)
	order, err := domain.NewOrder(session, s.now())
	if err != nil {
		return nil, fmt.Errorf("build order: %w", err)
	}

	// 2. Persist, atomically with the session teardown when the store allows
	if s.checkout != nil {
		err = s.checkout.CreateAndDeleteSession(ctx, order)
	} else {
		err = s.orders.Create(ctx, order)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.metrics.OrderPlaced(string(order.Fulfillment))
	s.logger.Info("order_persisted", fmt.Sprintf("Order %d stored", order.ID), requestID, map[string]interface{}{
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"fulfillment": string(order.Fulfillment),
		"total":       order.TotalPrice.StringFixed(2),
	})

	// 3. Notify every staff member; one failure does not stop the rest
	s.notifyStaff(ctx, order)

	// 4. Tear the session down
	if s.checkout == nil {
		s.closeSession(ctx, order)
	}

	return order, nil
}

// closeSession deletes the confirmed session. If that fails it is overwritten
// with a fresh one so a repeated "Yes" cannot store the order twice.
func (s *Service) closeSession(ctx context.Context, order *domain.Order) {
	requestID := logger.RequestID(ctx)

	err := s.sessions.Delete(ctx, order.UserID)
	if err == nil {
		return
	}
	s.logger.Warn("session_delete_failed", "Failed to delete session after order, resetting it", requestID, map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"error":    err.Error(),
	})

	if err := s.sessions.Save(ctx, domain.NewSession(order.UserID)); err != nil {
		// the order is stored; the customer must still see success
		s.logger.Error("session_reset_failed", "Failed to reset session after order", requestID, map[string]interface{}{
			"order_id": order.ID,
			"user_id":  order.UserID,
		}, err)
	}
}

func (s *Service) notifyStaff(ctx context.Context, order *domain.Order) {
	requestID := logger.RequestID(ctx)
	summary := StaffSummary(order, s.cafeAddress)

	for _, recipient := range s.staff {
		err := s.notifier.NotifyStaff(ctx, recipient, order.ID, summary)
		if err == nil {
			continue
		}

		s.metrics.StaffNotifyFailed()
		s.logger.Error("staff_notify_failed", fmt.Sprintf("Failed to notify staff member %d", recipient), requestID, map[string]interface{}{
			"order_id":     order.ID,
			"recipient_id": recipient,
		}, err)

		entry := domain.NewErrorLogEntry(order.UserID, domain.StepConfirm, fmt.Errorf("notify staff %d: %w", recipient, err))
		if err := s.errorLog.Record(ctx, entry); err != nil {
			s.logger.Error("error_log_failed", "Failed to record error log entry", requestID, nil, err)
		}
	}
}
