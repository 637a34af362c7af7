// Package telegram posts the morning's published tickets to a chat.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// Min interval between any two messages to the same chat to avoid
// 429 Too Many Requests (~30/min limit).
const sendInterval = 2 * time.Second

// queueSize bounds the send queue; a full queue drops, never blocks.
const queueSize = 100

// Notifier sends ticket messages through a buffered queue. A single
// background worker spaces the sends; enqueueing never blocks the
// pipeline. A nil Notifier is safe to use and sends nothing.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu      sync.Mutex
	stopped bool

	lastSend time.Time // worker goroutine only

	queue chan string
	wg    sync.WaitGroup
}

// New connects the bot and starts the send worker. Connection
// failures are logged and return nil.
func New(token string, chatID int64) *Notifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("failed to get telegram bot info", "error", err)
		return nil
	}

	n := &Notifier{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan string, queueSize),
	}
	n.wg.Add(1)
	go n.worker()

	slog.Info("telegram notifier initialized", "chat_id", chatID)
	return n
}

// QueueLen returns the current number of queued messages.
func (n *Notifier) QueueLen() int {
	if n == nil || n.queue == nil {
		return 0
	}
	return len(n.queue)
}

// Send queues one formatted message without blocking. A full queue
// drops the message with a warning.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if n == nil || n.bot == nil {
		return fmt.Errorf("telegram notifier not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return fmt.Errorf("notifier stopped")
	}
	select {
	case n.queue <- text:
		return nil
	default:
		slog.Warn("telegram queue is full, dropping message")
		return fmt.Errorf("message queue is full")
	}
}

// SendSets queues one message per ticket for every set that actually
// published. Empty and failed sets stay quiet. Returns the number of
// messages queued.
func (n *Notifier) SendSets(ctx context.Context, day time.Time, sets []models.TicketSet) int {
	if n == nil {
		return 0
	}
	queued := 0
	for _, set := range sets {
		if !Sendable(set.Status) {
			slog.Info("skipping set for telegram", "set", set.Code, "status", set.Status)
			continue
		}
		for _, t := range set.Tickets {
			if err := n.Send(ctx, FormatTicket(day, set.Code, set.Label, t)); err != nil {
				slog.Warn("ticket message not queued", "set", set.Code, "ticket", t.ID, "error", err)
				continue
			}
			queued++
		}
	}
	return queued
}

// Stop closes the queue and waits until every queued message went
// out. The morning run queues all tickets first and then stops, so
// stopping must flush rather than abort.
func (n *Notifier) Stop() {
	if n == nil {
		return
	}
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}
	n.stopped = true
	close(n.queue)
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for text := range n.queue {
		n.sendOne(text)
	}
}

func (n *Notifier) sendOne(text string) {
	if wait := sendInterval - time.Since(n.lastSend); wait > 0 && !n.lastSend.IsZero() {
		time.Sleep(wait)
	}
	n.lastSend = time.Now()

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("telegram send failed", "error", err)
		return
	}
	slog.Info("telegram message sent", "queue_length", len(n.queue))
}
