package telegram

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iamchris0/hsedeadlinerbot/internal/logging"
)

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logging.LogError(b.Logger, "failed to send message", err,
			slog.Int64("chat_id", chatID))
	}
}

// replyHTML sends course content: HTML parse mode, no link previews.
func (b *Bot) replyHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		logging.LogError(b.Logger, "failed to send message", err,
			slog.Int64("chat_id", chatID))
	}
}

func (b *Bot) replyError(chatID int64, err error) {
	logging.LogError(b.Logger, "course lookup failed", err,
		slog.Int64("chat_id", chatID))
	b.reply(chatID, lookupFailedText)
}

// DigestSender adapts the Bot API client to the reminders.Sender interface.
type DigestSender struct {
	api api
}

func NewDigestSender(client api) *DigestSender {
	return &DigestSender{api: client}
}

func (s *DigestSender) SendDigest(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := s.api.Send(msg)
	return err
}
