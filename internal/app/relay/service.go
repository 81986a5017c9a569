package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
	"github.com/YelzhanWeb/cafebot/internal/metrics"
)

var ErrInvalidMessage = errors.New("invalid staff notification")

// Service delivers queued staff notifications through the messenger
type Service struct {
	messenger interfaces.Messenger
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func NewService(messenger interfaces.Messenger, m *metrics.Metrics, logger logger.Logger) *Service {
	return &Service{
		messenger: messenger,
		metrics:   m,
		logger:    logger,
	}
}

// Deliver sends one notification. Errors wrapping interfaces.ErrRetryLater
// should be requeued; any other error is permanent.
func (s *Service) Deliver(ctx context.Context, msg interfaces.StaffNotificationMessage) error {
	// 1. Reject what can never be delivered
	if msg.RecipientID == 0 || msg.Text == "" {
		s.metrics.Relayed("dropped")
		return fmt.Errorf("%w: message %s has no recipient or text", ErrInvalidMessage, msg.MessageID)
	}

	s.logger.Debug("relay_delivery_started", fmt.Sprintf("Delivering order %d to %d", msg.OrderID, msg.RecipientID), msg.MessageID, map[string]interface{}{
		"order_id":     msg.OrderID,
		"recipient_id": msg.RecipientID,
	})

	// 2. Send
	err := s.messenger.Send(ctx, msg.RecipientID, interfaces.Reply{Text: msg.Text})
	switch {
	case err == nil:
		s.metrics.Relayed("sent")
		s.logger.Debug("relay_delivered", "Staff notification delivered", msg.MessageID, map[string]interface{}{
			"order_id": msg.OrderID,
		})
		return nil

	case errors.Is(err, interfaces.ErrRetryLater):
		s.metrics.Relayed("requeued")
		return fmt.Errorf("deliver order %d to %d: %w", msg.OrderID, msg.RecipientID, err)

	default:
		s.metrics.Relayed("dropped")
		s.logger.Error("relay_delivery_failed", "Staff notification rejected by messenger", msg.MessageID, map[string]interface{}{
			"order_id":     msg.OrderID,
			"recipient_id": msg.RecipientID,
		}, err)
		return fmt.Errorf("deliver order %d to %d: %w", msg.OrderID, msg.RecipientID, err)
	}
}
