// internal/app/notifier.go
package app

import (
	"context"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Delivery tells whether Notify actually sent something.
type Delivery int

const (
	DeliveryFailed Delivery = iota
	DeliverySent
	DeliveryUnchanged
)

func (o Delivery) String() string {
	switch o {
	case DeliverySent:
		return "sent"
	case DeliveryUnchanged:
		return "unchanged"
	default:
		return "failed"
	}
}

// Notifier delivers messages to one chat and drops a message identical to
// the last one it delivered. Only successfully sent text is remembered.
//
// Notifier is not safe for concurrent use; the poll loop owns it.
type Notifier struct {
	telegramClient domainTelegram.Client
	chatID         int64
	lastSent       string
	logger         *logrus.Entry
}

func NewNotifier(tc domainTelegram.Client, chatID int64, logger *logrus.Entry) *Notifier {
	return &Notifier{
		telegramClient: tc,
		chatID:         chatID,
		logger:         logger,
	}
}

// Notify sends message unless it equals the previously sent one.
func (n *Notifier) Notify(ctx context.Context, message string) (Delivery, error) {
	if message == n.lastSent {
		n.logger.Debug("Telegram message not sent: unchanged since the last one")
		return DeliveryUnchanged, nil
	}
	if err := ctx.Err(); err != nil {
		return DeliveryFailed, &homework.SendError{Err: err}
	}

	if err := n.telegramClient.SendMessage(n.chatID, message, nil); err != nil {
		n.logger.WithError(err).WithField("chat_id", n.chatID).Error("Telegram message not sent")
		return DeliveryFailed, &homework.SendError{Err: err}
	}

	n.lastSent = message
	n.logger.WithField("chat_id", n.chatID).Info("Telegram message sent")
	return DeliverySent, nil
}

// LastSent returns the text of the last delivered message.
func (n *Notifier) LastSent() string {
	return n.lastSent
}
