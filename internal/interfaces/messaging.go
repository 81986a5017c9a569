package interfaces

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	RestartCallbackData = "restart"
	RestartButtonText   = "Place Another Order"
)

// Reply is one outbound prompt. Options are reply-keyboard rows; nil means
// free-text entry.
type Reply struct {
	Text           string
	Options        [][]string
	RemoveKeyboard bool
	// RestartButton attaches the post-confirmation "place another order" control
	RestartButton bool
}

// Messenger delivers replies to a chat (Adapter/Telegram)
type Messenger interface {
	Send(ctx context.Context, chatID int64, reply Reply) error
}

// StaffNotifier delivers an order summary to one staff member.
// Implemented directly by the Telegram client or through RabbitMQ.
type StaffNotifier interface {
	NotifyStaff(ctx context.Context, recipientID int64, orderID int64, text string) error
}

// RabbitMQ messages
type StaffNotificationMessage struct {
	MessageID   string    `json:"message_id"`
	OrderID     int64     `json:"order_id"`
	RecipientID int64     `json:"recipient_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Messaging interfaces (Adapter/RabbitMQ)
type MessagePublisher interface {
	PublishStaffNotification(ctx context.Context, msg StaffNotificationMessage) error
}

type MessageConsumer interface {
	ConsumeStaffNotifications(ctx context.Context, handler DeliveryHandler) error
}

type DeliveryHandler func(ctx context.Context, body []byte) error

// ErrRetryLater marks a delivery failure worth requeueing. Anything else is
// dead-lettered.
var ErrRetryLater = errors.New("retry later")

// RetryAfterError is an ErrRetryLater failure that carries the wait the
// remote side asked for
type RetryAfterError struct {
	Err   error
	After time.Duration
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("%v (retry after %s)", e.Err, e.After)
}

func (e *RetryAfterError) Unwrap() []error {
	return []error{e.Err, ErrRetryLater}
}

// RetryDelay returns the wait carried by err, or false when there is none
func RetryDelay(err error) (time.Duration, bool) {
	var ra *RetryAfterError
	if errors.As(err, &ra) {
		return ra.After, true
	}
	return 0, false
}
