// Package telegram routes incoming Bot API updates to the course handlers.
package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iamchris0/hsedeadlinerbot/internal/app"
	"github.com/iamchris0/hsedeadlinerbot/internal/reminders"
)

// api is the subset of the Bot API client the handlers use. Kept narrow so
// tests can record outgoing messages.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot handles commands and document uploads for all chats.
type Bot struct {
	*app.Application
	api       api
	reminders *reminders.Scheduler

	// pendingUpdate marks chats where /update was issued and the next
	// workbook upload replaces the stored course.
	mu            sync.Mutex
	pendingUpdate map[int64]bool
}

func NewBot(application *app.Application, client api, scheduler *reminders.Scheduler) *Bot {
	return &Bot{
		Application:   application,
		api:           client,
		reminders:     scheduler,
		pendingUpdate: make(map[int64]bool),
	}
}

// Run consumes the update channel until ctx is cancelled or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "help", "start":
			b.handleHelp(ctx, chatID)
		case "info":
			b.handleInfo(ctx, chatID)
		case "update":
			b.handleUpdateCommand(chatID)
		}
	case msg.Document != nil:
		b.handleDocument(ctx, chatID, msg.Document)
	}
}

func (b *Bot) setPendingUpdate(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingUpdate[chatID] = true
}

func (b *Bot) isPendingUpdate(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingUpdate[chatID]
}

func (b *Bot) clearPendingUpdate(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pendingUpdate, chatID)
}
