package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"homework_status_bot/internal/app"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type staticSnapshot app.Snapshot

func (s staticSnapshot) Snapshot() app.Snapshot { return app.Snapshot(s) }

type sentMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func newRecordingBot(t *testing.T) (*telebot.Bot, func() []sentMessage) {
	t.Helper()
	var mu sync.Mutex
	var sent []sentMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg sentMessage
		_ = json.NewDecoder(r.Body).Decode(&msg)
		mu.Lock()
		sent = append(sent, msg)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
	}))
	t.Cleanup(server.Close)

	b, err := NewBot(testToken, time.Second, WithAPIURL(server.URL), WithOffline())
	require.NoError(t, err)
	return b, func() []sentMessage {
		mu.Lock()
		defer mu.Unlock()
		return append([]sentMessage(nil), sent...)
	}
}

func commandContext(b *telebot.Bot, chatID int64, text string) telebot.Context {
	return b.NewContext(telebot.Update{Message: &telebot.Message{
		Text:   text,
		Chat:   &telebot.Chat{ID: chatID, Type: telebot.ChatPrivate},
		Sender: &telebot.User{ID: chatID},
	}})
}

func nullEntry() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func TestStatusHandler_OwnerGetsSnapshot(t *testing.T) {
	b, sent := newRecordingBot(t)
	snap := staticSnapshot{
		Outcome:   app.OutcomeFailed,
		Cursor:    1700000000,
		CheckedAt: time.Now(),
		Error:     "Practicum API responded with status code 502",
	}

	err := statusHandler(42, snap, nullEntry())(commandContext(b, 42, "/status"))
	require.NoError(t, err)

	msgs := sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "42", msgs[0].ChatID)
	assert.Contains(t, msgs[0].Text, "Результат: failed")
	assert.Contains(t, msgs[0].Text, "status code 502")
}

func TestStatusHandler_ForeignChatRefused(t *testing.T) {
	b, sent := newRecordingBot(t)

	err := statusHandler(42, staticSnapshot{Outcome: app.OutcomeNotified}, nullEntry())(commandContext(b, 7, "/status"))
	require.NoError(t, err)

	msgs := sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "7", msgs[0].ChatID)
	assert.NotContains(t, msgs[0].Text, "Результат")
}

func TestHelpHandler(t *testing.T) {
	b, sent := newRecordingBot(t)

	require.NoError(t, helpHandler(42, nullEntry())(commandContext(b, 42, "/help")))

	msgs := sent()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "/status")
}

func TestFormatSnapshot(t *testing.T) {
	assert.Equal(t, "Первая проверка ещё не выполнялась.", FormatSnapshot(app.Snapshot{Outcome: app.OutcomeStarting}))

	text := FormatSnapshot(app.Snapshot{
		Outcome:    app.OutcomeNotified,
		Cursor:     1700000000,
		CheckedAt:  time.Now(),
		LastSentAt: time.Now(),
	})
	assert.Contains(t, text, "Результат: notified")
	assert.Contains(t, text, "Последнее уведомление")
	assert.NotContains(t, text, "Ошибка")
}
