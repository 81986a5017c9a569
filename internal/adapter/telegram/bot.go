// Package telegram connects the dialogue to the Bot API through telebot.
// Updates arrive on the webhook poller; replies and staff notifications go
// out through Bot.Send.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

const defaultTimeout = 10 * time.Second

// WebhookPath is where the router mounts the webhook, followed by the secret
const WebhookPath = "/telegram/"

var (
	statusSuffix = regexp.MustCompile(`\((\d{3})\)$`)
	retryAfterRx = regexp.MustCompile(`retry after (\d+)`)
)

type Config struct {
	Token  string
	APIURL string
	// Secret is the last path segment of the webhook and, when the webhook is
	// registered by us, the X-Telegram-Bot-Api-Secret-Token header
	Secret string
	// PublicURL is the externally reachable base URL. Empty leaves webhook
	// registration to the operator.
	PublicURL string
	Client    *http.Client
	// Offline skips getMe, for tests
	Offline bool
	// Synchronous handles each update before taking the next one
	Synchronous bool
}

// Bot implements interfaces.Messenger and interfaces.StaffNotifier
type Bot struct {
	bot     *tele.Bot
	webhook *tele.Webhook
	logger  logger.Logger
}

func NewBot(cfg Config, log logger.Logger) (*Bot, error) {
	webhook := &tele.Webhook{IgnoreSetWebhook: true}
	if cfg.PublicURL != "" {
		webhook.IgnoreSetWebhook = false
		webhook.SecretToken = cfg.Secret
		webhook.Endpoint = &tele.WebhookEndpoint{
			PublicURL: strings.TrimRight(cfg.PublicURL, "/") + WebhookPath + cfg.Secret,
		}
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	b := &Bot{webhook: webhook, logger: log}
	bot, err := tele.NewBot(tele.Settings{
		URL:         cfg.APIURL,
		Token:       cfg.Token,
		Poller:      webhook,
		Client:      client,
		Offline:     cfg.Offline,
		Synchronous: cfg.Synchronous,
		OnError:     b.onError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", redact(err))
	}
	b.bot = bot
	return b, nil
}

// Webhook receives updates posted by Telegram. Mount it behind the secret
// check and call Start before serving.
func (b *Bot) Webhook() http.Handler {
	return b.webhook
}

// Start runs the update loop until Stop
func (b *Bot) Start() {
	b.bot.Start()
}

func (b *Bot) Stop() {
	b.bot.Stop()
}

// Send renders reply as a message. Options become a one-time reply keyboard,
// RemoveKeyboard hides the keyboard and RestartButton attaches the inline
// "place another order" button.
func (b *Bot) Send(ctx context.Context, chatID int64, reply interfaces.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var opts []interface{}
	if markup := replyMarkup(reply); markup != nil {
		opts = append(opts, markup)
	}

	_, err := b.bot.Send(tele.ChatID(chatID), reply.Text, opts...)
	return classify(err)
}

func (b *Bot) NotifyStaff(ctx context.Context, recipientID, orderID int64, text string) error {
	if err := b.Send(ctx, recipientID, interfaces.Reply{Text: text}); err != nil {
		return fmt.Errorf("order %d: %w", orderID, err)
	}
	return nil
}

func (b *Bot) onError(err error, c tele.Context) {
	details := map[string]interface{}{}
	if c != nil {
		details["update_id"] = c.Update().ID
	}
	b.logger.Error("telegram_error", "Telegram bot error", "", details, redact(err))
}

func replyMarkup(reply interfaces.Reply) *tele.ReplyMarkup {
	switch {
	case reply.RestartButton:
		return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{
			{Text: interfaces.RestartButtonText, Data: interfaces.RestartCallbackData},
		}}}
	case reply.RemoveKeyboard:
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	case len(reply.Options) > 0:
		rows := make([][]tele.ReplyButton, 0, len(reply.Options))
		for _, row := range reply.Options {
			buttons := make([]tele.ReplyButton, 0, len(row))
			for _, text := range row {
				buttons = append(buttons, tele.ReplyButton{Text: text})
			}
			rows = append(rows, buttons)
		}
		return &tele.ReplyMarkup{ReplyKeyboard: rows, OneTimeKeyboard: true, ResizeKeyboard: true}
	}
	return nil
}

// classify wraps rate limits, 5xx and transport failures in
// interfaces.ErrRetryLater. A 429 carries Telegram's retry_after.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return &interfaces.RetryAfterError{Err: err, After: time.Duration(flood.RetryAfter) * time.Second}
	}

	code := 0
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	} else if m := statusSuffix.FindStringSubmatch(err.Error()); m != nil {
		code, _ = strconv.Atoi(m[1])
	}

	switch {
	case code == http.StatusTooManyRequests:
		if m := retryAfterRx.FindStringSubmatch(err.Error()); m != nil {
			seconds, _ := strconv.Atoi(m[1])
			return &interfaces.RetryAfterError{Err: err, After: time.Duration(seconds) * time.Second}
		}
		return fmt.Errorf("%w: %w", err, interfaces.ErrRetryLater)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", err, interfaces.ErrRetryLater)
	case code > 0:
		return err
	}

	// no API answer at all: network failure or an unreadable body
	return fmt.Errorf("%w: %w", redact(err), interfaces.ErrRetryLater)
}

// redact drops the request URL, which carries the bot token
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("telegram %s request failed: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
