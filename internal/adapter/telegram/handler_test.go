package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/app/admin"
	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type call struct {
	method    string
	userID    int64
	text      string
	requestID string
}

type fakeDialogue struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeDialogue) record(ctx context.Context, method string, userID int64, text string) []interfaces.Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method: method, userID: userID, text: text, requestID: logger.RequestID(ctx)})
	return []interfaces.Reply{{Text: method + " reply"}}
}

func (f *fakeDialogue) Start(ctx context.Context, userID int64) []interfaces.Reply {
	return f.record(ctx, "start", userID, "")
}

func (f *fakeDialogue) Cancel(ctx context.Context, userID int64) []interfaces.Reply {
	return f.record(ctx, "cancel", userID, "")
}

func (f *fakeDialogue) Restart(ctx context.Context, userID int64) []interfaces.Reply {
	return f.record(ctx, "restart", userID, "")
}

func (f *fakeDialogue) HandleText(ctx context.Context, userID int64, text string) []interfaces.Reply {
	return f.record(ctx, "text", userID, text)
}

type fakeAdmin struct {
	orders []*domain.Order
	err    error
}

func (f *fakeAdmin) IsAdmin(userID int64) bool { return userID == 1 }

func (f *fakeAdmin) RecentOrders(ctx context.Context) ([]*domain.Order, error) {
	return f.orders, f.err
}

func (f *fakeAdmin) Order(ctx context.Context, id int64) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (f *fakeAdmin) RecentOrdersText(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return admin.FormatListing(f.orders), nil
}

type handlerFixture struct {
	bot      *Bot
	api      *fakeAPI
	dialogue *fakeDialogue
	admin    *fakeAdmin
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	b, api, _ := newTestBot(t)
	f := &handlerFixture{bot: b, api: api, dialogue: &fakeDialogue{}, admin: &fakeAdmin{}}
	NewHandler(f.dialogue, f.admin, b, logger.NewNop()).Register(b)
	return f
}

func (f *handlerFixture) message(userID, chatID int64, text string) {
	f.bot.bot.ProcessUpdate(tele.Update{
		ID: 77,
		Message: &tele.Message{
			ID:     1,
			Sender: &tele.User{ID: userID},
			Chat:   &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
			Text:   text,
		},
	})
}

func TestHandler_DispatchesCommandsAndText(t *testing.T) {
	tests := []struct {
		text   string
		method string
	}{
		{"/start", "start"},
		{"/start@OneShotCafeBot", "start"},
		{"/cancel", "cancel"},
		{"Hot Drinks", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := newHandlerFixture(t)

			f.message(5, 500, tt.text)

			require.Len(t, f.dialogue.calls, 1)
			got := f.dialogue.calls[0]
			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, int64(5), got.userID)
			assert.Equal(t, "tg-77", got.requestID)

			sent := f.api.sent("sendMessage")
			require.Len(t, sent, 1)
			assert.Equal(t, "500", sent[0].chatID())
			assert.Equal(t, tt.method+" reply", sent[0].text())
		})
	}
}

func TestHandler_TextIsPassedThrough(t *testing.T) {
	f := newHandlerFixture(t)

	f.message(5, 500, "Hot Latte")

	require.Len(t, f.dialogue.calls, 1)
	assert.Equal(t, "Hot Latte", f.dialogue.calls[0].text)
}

func TestHandler_RestartCallback(t *testing.T) {
	f := newHandlerFixture(t)

	f.bot.bot.ProcessUpdate(tele.Update{
		ID: 9,
		Callback: &tele.Callback{
			ID:      "cb-1",
			Sender:  &tele.User{ID: 5},
			Message: &tele.Message{ID: 3, Chat: &tele.Chat{ID: 500, Type: tele.ChatPrivate}},
			Data:    interfaces.RestartCallbackData,
		},
	})

	answered := f.api.sent("answerCallbackQuery")
	require.Len(t, answered, 1)
	assert.Equal(t, "cb-1", answered[0].params["callback_query_id"])

	require.Len(t, f.dialogue.calls, 1)
	assert.Equal(t, "restart", f.dialogue.calls[0].method)
	assert.Equal(t, "tg-9", f.dialogue.calls[0].requestID)

	sent := f.api.sent("sendMessage")
	require.Len(t, sent, 1)
	assert.Equal(t, "500", sent[0].chatID())
}

func TestHandler_UnknownCallbackIsOnlyAnswered(t *testing.T) {
	f := newHandlerFixture(t)

	f.bot.bot.ProcessUpdate(tele.Update{
		ID: 10,
		Callback: &tele.Callback{
			ID:      "cb-2",
			Sender:  &tele.User{ID: 5},
			Message: &tele.Message{ID: 3, Chat: &tele.Chat{ID: 500, Type: tele.ChatPrivate}},
			Data:    "something-else",
		},
	})

	assert.Len(t, f.api.sent("answerCallbackQuery"), 1)
	assert.Empty(t, f.dialogue.calls)
	assert.Empty(t, f.api.sent("sendMessage"))
}

func TestHandler_OrdersCommand(t *testing.T) {
	t.Run("non admin", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.message(5, 5, "/orders")

		sent := f.api.sent("sendMessage")
		require.Len(t, sent, 1)
		assert.Equal(t, admin.MsgNotAdmin, sent[0].text())
		assert.Empty(t, f.dialogue.calls)
	})

	t.Run("admin without orders", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.message(1, 1, "/orders")

		sent := f.api.sent("sendMessage")
		require.Len(t, sent, 1)
		assert.Equal(t, admin.MsgNoOrders, sent[0].text())
	})

	t.Run("store failure", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.admin.err = errors.New("db down")
		f.message(1, 1, "/orders")

		sent := f.api.sent("sendMessage")
		require.Len(t, sent, 1)
		assert.Equal(t, msgOrdersUnavailable, sent[0].text())
	})
}
