package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/app/admin"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

const (
	msgOrdersUnavailable = "Could not load orders right now. Please try again later."

	turnTimeout = 30 * time.Second
)

// Handler turns bot updates into dialogue turns and sends the replies
type Handler struct {
	dialogue  interfaces.DialogueService
	admin     interfaces.AdminService
	messenger interfaces.Messenger
	logger    logger.Logger
}

func NewHandler(
	dialogue interfaces.DialogueService,
	admin interfaces.AdminService,
	messenger interfaces.Messenger,
	logger logger.Logger,
) *Handler {
	return &Handler{
		dialogue:  dialogue,
		admin:     admin,
		messenger: messenger,
		logger:    logger,
	}
}

// Register binds the commands, free text and the restart callback. Other
// update kinds (stickers, photos, edits) have no handler and are ignored.
func (h *Handler) Register(b *Bot) {
	b.bot.Handle("/start", h.onStart)
	b.bot.Handle("/cancel", h.onCancel)
	b.bot.Handle("/orders", h.onOrders)
	b.bot.Handle(tele.OnText, h.onText)
	b.bot.Handle(tele.OnCallback, h.onCallback)
}

func (h *Handler) onStart(c tele.Context) error {
	return h.turn(c, func(ctx context.Context, userID int64) []interfaces.Reply {
		return h.dialogue.Start(ctx, userID)
	})
}

func (h *Handler) onCancel(c tele.Context) error {
	return h.turn(c, func(ctx context.Context, userID int64) []interfaces.Reply {
		return h.dialogue.Cancel(ctx, userID)
	})
}

func (h *Handler) onText(c tele.Context) error {
	return h.turn(c, func(ctx context.Context, userID int64) []interfaces.Reply {
		return h.dialogue.HandleText(ctx, userID, c.Text())
	})
}

func (h *Handler) onOrders(c tele.Context) error {
	return h.turn(c, func(ctx context.Context, userID int64) []interfaces.Reply {
		return []interfaces.Reply{h.recentOrders(ctx, userID)}
	})
}

func (h *Handler) onCallback(c tele.Context) error {
	ctx, cancel := h.context(c)
	defer cancel()

	if err := c.Respond(); err != nil {
		h.logger.Warn("callback_answer_failed", "Failed to answer callback query", logger.RequestID(ctx),
			map[string]interface{}{"error": redact(err).Error()})
	}

	cb := c.Callback()
	if cb.Data != interfaces.RestartCallbackData || cb.Sender == nil {
		h.logger.Debug("callback_ignored", fmt.Sprintf("Unknown callback data %q", cb.Data), logger.RequestID(ctx), nil)
		return nil
	}

	chatID := cb.Sender.ID
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	h.send(ctx, chatID, h.dialogue.Restart(ctx, cb.Sender.ID))
	return nil
}

// turn runs one message through fn and sends what it returns. Failures are
// logged here; the update is never retried.
func (h *Handler) turn(c tele.Context, fn func(ctx context.Context, userID int64) []interfaces.Reply) error {
	ctx, cancel := h.context(c)
	defer cancel()

	sender, chat := c.Sender(), c.Chat()
	if sender == nil || chat == nil {
		h.logger.Debug("update_ignored", "Message without sender or chat", logger.RequestID(ctx), nil)
		return nil
	}

	h.send(ctx, chat.ID, fn(ctx, sender.ID))
	return nil
}

func (h *Handler) context(c tele.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	return logger.WithRequestID(ctx, fmt.Sprintf("tg-%d", c.Update().ID)), cancel
}

func (h *Handler) recentOrders(ctx context.Context, userID int64) interfaces.Reply {
	if !h.admin.IsAdmin(userID) {
		return interfaces.Reply{Text: admin.MsgNotAdmin}
	}

	text, err := h.admin.RecentOrdersText(ctx)
	if err != nil {
		h.logger.Error("orders_query_failed", "Failed to load recent orders", logger.RequestID(ctx),
			map[string]interface{}{"user_id": userID}, err)
		return interfaces.Reply{Text: msgOrdersUnavailable}
	}
	return interfaces.Reply{Text: text}
}

func (h *Handler) send(ctx context.Context, chatID int64, replies []interfaces.Reply) {
	for _, reply := range replies {
		if err := h.messenger.Send(ctx, chatID, reply); err != nil {
			h.logger.Error("reply_send_failed", "Failed to send reply", logger.RequestID(ctx),
				map[string]interface{}{"chat_id": chatID}, err)
			return
		}
	}
}
