// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"
	"time"

	"homework_status_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// SnapshotProvider exposes the latest poll loop state.
type SnapshotProvider interface {
	Snapshot() app.Snapshot
}

// RegisterBotCommands registers /start, /help and /status. Commands are
// answered only in the chat the bot reports to.
func RegisterBotCommands(b *telebot.Bot, ownerChatID int64, provider SnapshotProvider, baseLogger *logrus.Entry) {
	logger := baseLogger.WithField("handler_group", "commands")
	b.Handle("/start", helpHandler(ownerChatID, logger.WithField("command", "/start")))
	b.Handle("/help", helpHandler(ownerChatID, logger.WithField("command", "/help")))
	b.Handle("/status", statusHandler(ownerChatID, provider, logger.WithField("command", "/status")))
}

func helpHandler(ownerChatID int64, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := logger.WithField("chat_id", c.Chat().ID)
		if c.Chat().ID != ownerChatID {
			logCtx.Info("Command from a foreign chat ignored")
			return c.Send("Этот бот отправляет уведомления только своему владельцу.")
		}
		logCtx.Info("Processing help command")

		var helpText strings.Builder
		helpText.WriteString("Я проверяю статус последней домашней работы в Практикуме и пишу сюда, когда он меняется.\n\n")
		helpText.WriteString("/status - состояние последней проверки\n")
		helpText.WriteString("/help - показать это сообщение")
		return c.Send(helpText.String())
	}
}

func statusHandler(ownerChatID int64, provider SnapshotProvider, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := logger.WithField("chat_id", c.Chat().ID)
		if c.Chat().ID != ownerChatID {
			logCtx.Info("Command from a foreign chat ignored")
			return c.Send("Этот бот отправляет уведомления только своему владельцу.")
		}
		logCtx.Info("Processing /status command")
		return c.Send(FormatSnapshot(provider.Snapshot()))
	}
}

// FormatSnapshot renders the loop state for a chat reply.
func FormatSnapshot(snap app.Snapshot) string {
	if snap.Outcome == app.OutcomeStarting {
		return "Первая проверка ещё не выполнялась."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Последняя проверка: %s\n", snap.CheckedAt.Format(time.DateTime))
	fmt.Fprintf(&sb, "Результат: %s\n", snap.Outcome)
	fmt.Fprintf(&sb, "Изменения ищутся начиная с %s", time.Unix(snap.Cursor, 0).Format(time.DateTime))
	if !snap.LastSentAt.IsZero() {
		fmt.Fprintf(&sb, "\nПоследнее уведомление: %s", snap.LastSentAt.Format(time.DateTime))
	}
	if snap.Error != "" {
		fmt.Fprintf(&sb, "\nОшибка: %s", snap.Error)
	}
	return sb.String()
}
