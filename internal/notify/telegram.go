// Package notify tells restaurant staff about new orders.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kiwari-pos/ordering/internal/menu"
	"github.com/sirupsen/logrus"
)

// Sender is the subset of *tgbotapi.BotAPI used to post messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a message to a staff chat for every created order.
type Telegram struct {
	api    Sender
	chatID int64
	log    logrus.FieldLogger
}

// NewTelegram connects to the Bot API with token.
func NewTelegram(token string, chatID int64, log logrus.FieldLogger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewTelegramWithSender(api, chatID, log), nil
}

// NewTelegramWithSender wraps an existing sender.
func NewTelegramWithSender(api Sender, chatID int64, log logrus.FieldLogger) *Telegram {
	return &Telegram{api: api, chatID: chatID, log: log}
}

// OrderCreated implements menu.Notifier.
func (t *Telegram) OrderCreated(_ context.Context, r menu.Receipt) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatOrder(r))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send order %s: %w", r.OrderID, err)
	}
	t.log.WithField("order_id", r.OrderID.String()).Debug("staff notified")
	return nil
}

// FormatOrder renders a receipt as a plain-text chat message.
func FormatOrder(r menu.Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Created\nOrder ID: %s\n", r.OrderID)
	if len(r.Items) == 0 {
		b.WriteString("(no items)\n")
	}
	for _, it := range r.Items {
		name := it.Name
		if name == "" {
			name = it.MenuItemID
		}
		fmt.Fprintf(&b, "%d x %s  $%s\n", it.Quantity, name, it.Subtotal)
	}
	fmt.Fprintf(&b, "Total: $%s", r.Total)
	return b.String()
}
