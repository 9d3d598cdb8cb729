package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// The poll loop depends on it rather than on telebot directly so the
// notifier can be tested without a network.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
