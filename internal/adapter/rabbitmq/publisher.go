package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.MessagePublisher {
	return &publisher{conn: conn}
}

func (p *publisher) PublishStaffNotification(ctx context.Context, msg interfaces.StaffNotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx, StaffExchange, StaffRoutingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    msg.MessageID,
		Timestamp:    msg.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// channel redials once when the broker dropped the connection since the last
// order
func (p *publisher) channel() (Channel, error) {
	ch, err := p.conn.Channel()
	if err == nil {
		return ch, nil
	}
	if !p.conn.IsClosed() {
		return nil, err
	}

	if rerr := p.conn.Reconnect(); rerr != nil {
		return nil, rerr
	}
	return p.conn.Channel()
}

// StaffNotifier queues staff notifications for the relay worker instead of
// calling Telegram from the request path
type StaffNotifier struct {
	publisher interfaces.MessagePublisher
	now       func() time.Time
}

func NewStaffNotifier(publisher interfaces.MessagePublisher) *StaffNotifier {
	return &StaffNotifier{
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (n *StaffNotifier) NotifyStaff(ctx context.Context, recipientID, orderID int64, text string) error {
	return n.publisher.PublishStaffNotification(ctx, interfaces.StaffNotificationMessage{
		MessageID:   uuid.NewString(),
		OrderID:     orderID,
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   n.now(),
	})
}
