package middleware

import (
	"sync"
	"testing"
	"time"

	"github.com/futig/docs-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func textUpdate(userID, chatID int64) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: "question",
		},
	}
}

func TestRateLimiter_BurstThenBlock(t *testing.T) {
	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(1, 3, zaptest.NewLogger(t), sender)

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	for range 5 {
		rl.Handle(textUpdate(1, 10), next)
	}

	assert.Equal(t, 3, handled)
	// one warning per interval
	if assert.Len(t, sender.sent, 1) {
		msg := sender.sent[0].(tgbotapi.MessageConfig)
		assert.Equal(t, int64(10), msg.ChatID)
		assert.Equal(t, render.MsgSlowDown, msg.Text)
	}
}

func TestRateLimiter_WarningsEscalate(t *testing.T) {
	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(1, 1, zaptest.NewLogger(t), sender)
	next := func(tgbotapi.Update) {}

	rl.Handle(textUpdate(1, 10), next)
	for range 4 {
		rl.Handle(textUpdate(1, 10), next)

		limit := rl.userLimit(1)
		limit.mu.Lock()
		limit.lastWarningAt = time.Time{}
		limit.mu.Unlock()
	}

	var texts []string
	for _, c := range sender.sent {
		texts = append(texts, c.(tgbotapi.MessageConfig).Text)
	}
	assert.Equal(t, []string{
		render.MsgSlowDown,
		render.MsgRateLimited,
		render.MsgRateLimitHit,
		render.MsgRateLimitHit,
	}, texts)
}

func TestRateLimiter_PerUser(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, 1, zaptest.NewLogger(t), &fakeSender{})

	handled := map[int64]int{}
	next := func(u tgbotapi.Update) { handled[u.Message.From.ID]++ }

	rl.Handle(textUpdate(1, 10), next)
	rl.Handle(textUpdate(1, 10), next)
	rl.Handle(textUpdate(2, 20), next)

	assert.Equal(t, 1, handled[1])
	assert.Equal(t, 1, handled[2])
}

func TestRateLimiter_PassesNonMessageUpdates(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, 1, zaptest.NewLogger(t), &fakeSender{})

	handled := 0
	for range 3 {
		rl.Handle(tgbotapi.Update{UpdateID: 1}, func(tgbotapi.Update) { handled++ })
	}
	assert.Equal(t, 3, handled)
}

func TestRecovery_SendsErrorMessage(t *testing.T) {
	sender := &fakeSender{}
	m := NewRecoveryMiddleware(zaptest.NewLogger(t), sender)

	assert.NotPanics(t, func() {
		m.Handle(textUpdate(1, 10), func(tgbotapi.Update) { panic("boom") })
	})
	if assert.Len(t, sender.sent, 1) {
		msg := sender.sent[0].(tgbotapi.MessageConfig)
		assert.Equal(t, int64(10), msg.ChatID)
		assert.Equal(t, render.ErrGeneric, msg.Text)
	}
}
