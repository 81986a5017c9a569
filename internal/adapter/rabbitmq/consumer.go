package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

const (
	reconnectDelay = 5 * time.Second

	defaultMaxAttempts = 5
	defaultRetryDelay  = 5 * time.Second
	maxRetryDelay      = 10 * time.Minute

	// attemptsHeader counts the failed deliveries of a message so far
	attemptsHeader = "x-cafebot-attempts"
)

type consumer struct {
	conn           Connection
	prefetch       int
	logger         logger.Logger
	reconnectDelay time.Duration
	maxAttempts    int
	retryDelay     time.Duration
}

type ConsumerOption func(*consumer)

// WithMaxAttempts bounds the deliveries of one notification before it is
// dead-lettered
func WithMaxAttempts(n int) ConsumerOption {
	return func(c *consumer) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRetryDelay is the first backoff step; it doubles per attempt
func WithRetryDelay(d time.Duration) ConsumerOption {
	return func(c *consumer) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

func NewConsumer(conn Connection, prefetch int, logger logger.Logger, opts ...ConsumerOption) interfaces.MessageConsumer {
	c := &consumer{
		conn:           conn,
		prefetch:       prefetch,
		logger:         logger,
		reconnectDelay: reconnectDelay,
		maxAttempts:    defaultMaxAttempts,
		retryDelay:     defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConsumeStaffNotifications blocks until ctx is done, reopening the channel
// whenever the broker drops it. A handler error wrapping
// interfaces.ErrRetryLater parks the delivery in the retry queue with
// exponential backoff; any other error, or too many attempts, sends it to the
// dead-letter queue.
func (c *consumer) ConsumeStaffNotifications(ctx context.Context, handler interfaces.DeliveryHandler) error {
	for {
		err := c.consumeStaff(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Warn("consumer_disconnected", fmt.Sprintf("Staff consumer disconnected, reconnecting in %s", c.reconnectDelay), "",
			map[string]interface{}{"error": err.Error()})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
		}

		if c.conn.IsClosed() {
			if err := c.conn.Reconnect(); err != nil {
				c.logger.Error("reconnect_failed", "Failed to reconnect to RabbitMQ", "", nil, err)
			}
		}
	}
}

func (c *consumer) consumeStaff(ctx context.Context, handler interfaces.DeliveryHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(StaffQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			err := handler(ctx, msg.Body)
			switch {
			case err == nil:
				msg.Ack(false)
			case errors.Is(err, interfaces.ErrRetryLater):
				c.retry(ctx, ch, msg, err)
			default:
				msg.Nack(false, false)
			}
		}
	}
}

// retry republishes msg to the retry queue with a TTL, then acks the
// original. The broker dead-letters it back to the work queue once the TTL
// runs out.
func (c *consumer) retry(ctx context.Context, ch Channel, msg amqp.Delivery, cause error) {
	attempt := attempts(msg.Headers) + 1
	details := map[string]interface{}{
		"attempt":      attempt,
		"max_attempts": c.maxAttempts,
		"error":        cause.Error(),
	}

	if attempt >= c.maxAttempts {
		c.logger.Warn("retry_exhausted", "Staff notification dead-lettered after repeated failures", msg.MessageId, details)
		msg.Nack(false, false)
		return
	}

	delay := c.backoff(attempt, cause)
	details["delay_ms"] = delay.Milliseconds()

	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[attemptsHeader] = int32(attempt)

	err := ch.PublishWithContext(ctx, "", StaffRetryQueue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  msg.ContentType,
		MessageId:    msg.MessageId,
		Timestamp:    msg.Timestamp,
		Headers:      headers,
		Expiration:   strconv.FormatInt(delay.Milliseconds(), 10),
		Body:         msg.Body,
	})
	if err != nil {
		// the channel is likely gone; the broker redelivers once it notices
		c.logger.Error("retry_publish_failed", "Failed to park staff notification for retry", msg.MessageId, details, err)
		msg.Nack(false, true)
		return
	}

	c.logger.Info("delivery_deferred", fmt.Sprintf("Staff notification retried in %s", delay), msg.MessageId, details)
	msg.Ack(false)
}

// backoff doubles retryDelay per attempt, never waits less than the remote
// asked for and never more than maxRetryDelay
func (c *consumer) backoff(attempt int, cause error) time.Duration {
	delay := c.retryDelay
	for i := 1; i < attempt && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	if after, ok := interfaces.RetryDelay(cause); ok && after > delay {
		delay = after
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func attempts(headers amqp.Table) int {
	switch v := headers[attemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}
