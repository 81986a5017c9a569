package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

// StaffHandler decodes queued staff notifications and hands them to the relay
type StaffHandler struct {
	service interfaces.RelayService
	logger  logger.Logger
}

func NewStaffHandler(service interfaces.RelayService, logger logger.Logger) *StaffHandler {
	return &StaffHandler{
		service: service,
		logger:  logger,
	}
}

// HandleDelivery is an interfaces.DeliveryHandler. Undecodable bodies are
// returned as permanent errors so they land in the dead-letter queue.
func (h *StaffHandler) HandleDelivery(ctx context.Context, body []byte) error {
	var msg interfaces.StaffNotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse staff notification", "", nil, err)
		return fmt.Errorf("decode staff notification: %w", err)
	}

	ctx = logger.WithRequestID(ctx, msg.MessageID)
	h.logger.Debug("notification_received", fmt.Sprintf("Received staff notification for order %d", msg.OrderID),
		msg.MessageID, map[string]interface{}{
			"order_id":     msg.OrderID,
			"recipient_id": msg.RecipientID,
		})

	return h.service.Deliver(ctx, msg)
}
