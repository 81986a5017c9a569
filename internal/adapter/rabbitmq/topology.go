package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	StaffExchange   = "staff_notifications"
	StaffRoutingKey = "staff"
	StaffQueue      = "staff_notifications_queue"
	StaffDLX        = "staff_notifications_dlx"
	StaffDLQ        = "staff_notifications_dlq"
	// StaffRetryQueue has no consumer. Messages wait out their per-message TTL
	// there and are dead-lettered back to StaffExchange.
	StaffRetryQueue = "staff_notifications_retry"
)

// declareStaffTopology sets up the direct exchange, the work queue, its
// dead-letter queue and the delay queue used for backoff
func declareStaffTopology(ch Channel) error {
	if err := ch.ExchangeDeclare(StaffExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare staff exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(StaffDLX, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	if err := ch.QueueDeclare(StaffDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	if err := ch.QueueBind(StaffDLQ, StaffRoutingKey, StaffDLX, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange": StaffDLX,
	}
	if err := ch.QueueDeclare(StaffQueue, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare staff queue: %w", err)
	}

	if err := ch.QueueBind(StaffQueue, StaffRoutingKey, StaffExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind staff queue: %w", err)
	}

	retryArgs := amqp.Table{
		"x-dead-letter-exchange":    StaffExchange,
		"x-dead-letter-routing-key": StaffRoutingKey,
	}
	if err := ch.QueueDeclare(StaffRetryQueue, true, false, false, false, retryArgs); err != nil {
		return fmt.Errorf("failed to declare retry queue: %w", err)
	}

	return nil
}
