package amqp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type recordingRelay struct {
	got       []interfaces.StaffNotificationMessage
	requestID string
}

func (r *recordingRelay) Deliver(ctx context.Context, msg interfaces.StaffNotificationMessage) error {
	r.got = append(r.got, msg)
	r.requestID = logger.RequestID(ctx)
	return nil
}

func TestStaffHandler_DecodesAndDelivers(t *testing.T) {
	relay := &recordingRelay{}
	h := NewStaffHandler(relay, logger.NewNop())

	body, err := json.Marshal(interfaces.StaffNotificationMessage{MessageID: "m-7", OrderID: 3, RecipientID: 900, Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, h.HandleDelivery(context.Background(), body))
	require.Len(t, relay.got, 1)
	assert.Equal(t, int64(900), relay.got[0].RecipientID)
	assert.Equal(t, "m-7", relay.requestID)
}

func TestStaffHandler_RejectsGarbage(t *testing.T) {
	relay := &recordingRelay{}
	h := NewStaffHandler(relay, logger.NewNop())

	err := h.HandleDelivery(context.Background(), []byte("not json"))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrRetryLater)
	assert.Empty(t, relay.got)
}
