package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Houeta/leadgate/internal/config"
	"github.com/Houeta/leadgate/internal/metrics"
	"github.com/Houeta/leadgate/internal/models"
	"gopkg.in/telebot.v4"
)

// Outcome is the result of a single lead notification attempt. Failures are
// never propagated to the submission flow; the outcome makes them observable
// in logs and metrics instead.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"    // the message reached the Telegram API
	OutcomeSkipped Outcome = "skipped" // no credential or no destination chat
	OutcomeFailed  Outcome = "failed"  // the send was attempted and failed
)

// Interface defines the lead notification contract. Implementations must not
// return errors: a notification failure must never fail a lead submission.
type Interface interface {
	NotifyLead(ctx context.Context, client models.Client, lead models.Lead) Outcome
}

// Telegram announces new leads to a client's Telegram chat via the bot API.
type Telegram struct {
	bot          *telebot.Bot
	log          *slog.Logger
	metrics      *metrics.Metrics
	fallbackChat string
}

// chat adapts a raw chat identifier string to the telebot Recipient interface.
// Client records store chat ids as text, so no int64 parsing is involved.
type chat string

func (c chat) Recipient() string { return string(c) }

// NewTelegram creates a Telegram notifier with the given settings. The bot
// token is verified against the API at startup; the HTTP client timeout from
// the configuration bounds every outbound call, including the sends.
func NewTelegram(log *slog.Logger, mtr *metrics.Metrics, cfg config.TelegramConfig) (*Telegram, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		URL:    cfg.APIURL,
		Token:  cfg.Token,
		Client: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	return &Telegram{
		bot:          bot,
		log:          log,
		metrics:      mtr,
		fallbackChat: cfg.FallbackChat,
	}, nil
}

// NotifyLead sends a short message about the lead to the client's chat.
// A client without a chat id falls back to the configured fallback chat;
// if that is empty as well the notification is skipped. Send failures are
// logged and counted, never returned.
func (n *Telegram) NotifyLead(ctx context.Context, client models.Client, lead models.Lead) Outcome {
	chatID := client.TelegramChat
	if chatID == "" {
		chatID = n.fallbackChat
	}
	if chatID == "" {
		n.log.DebugContext(ctx, "No destination chat, skipping notification", "client", client.Slug)
		return n.observe(OutcomeSkipped)
	}

	text := fmt.Sprintf("New lead for %s: %s", client.Slug, lead.Phone)
	if _, err := n.bot.Send(chat(chatID), text); err != nil {
		n.log.ErrorContext(ctx, "Failed to send lead notification",
			"error", err, "client", client.Slug, "chat", chatID)
		return n.observe(OutcomeFailed)
	}

	n.log.InfoContext(ctx, "Lead notification sent", "client", client.Slug, "chat", chatID)
	return n.observe(OutcomeSent)
}

func (n *Telegram) observe(outcome Outcome) Outcome {
	if n.metrics != nil {
		n.metrics.Notifications.WithLabelValues(string(outcome)).Inc()
	}
	return outcome
}

// Noop is the notifier used when no bot token is configured.
// Every call is a silent skip; lead persistence is unaffected.
type Noop struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewNoop creates a notifier that skips every notification.
func NewNoop(log *slog.Logger, mtr *metrics.Metrics) *Noop {
	return &Noop{log: log, metrics: mtr}
}

// NotifyLead records a skip and does nothing else.
func (n *Noop) NotifyLead(ctx context.Context, client models.Client, _ models.Lead) Outcome {
	n.log.DebugContext(ctx, "Notifier disabled, skipping notification", "client", client.Slug)
	if n.metrics != nil {
		n.metrics.Notifications.WithLabelValues(string(OutcomeSkipped)).Inc()
	}
	return OutcomeSkipped
}
