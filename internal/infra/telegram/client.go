// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"net/http"
	"time"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// NewBot creates the bot. Updates are only fetched if the caller starts the
// bot for chat commands. Every API call is bounded by timeout, so the long
// poll timeout stays below it.
func NewBot(token string, timeout time.Duration, opts ...BotOption) (*telebot.Bot, error) {
	pref := telebot.Settings{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Poller: &telebot.LongPoller{Timeout: timeout / 2},
	}
	for _, opt := range opts {
		opt(&pref)
	}

	b, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return b, nil
}

// BotOption tweaks bot settings before creation.
type BotOption func(*telebot.Settings)

// WithAPIURL points the bot at a different Bot API server.
func WithAPIURL(url string) BotOption {
	return func(s *telebot.Settings) { s.URL = url }
}

// WithOffline skips the getMe call made on creation.
func WithOffline() BotOption {
	return func(s *telebot.Settings) { s.Offline = true }
}

// SendMessage sends a text message to the specified chat.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	// ChatID works for private chats, groups and channels alike.
	_, err := tba.bot.Send(telebot.ChatID(chatID), text, options)
	return err
}
