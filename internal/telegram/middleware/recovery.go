package middleware

import (
	"runtime/debug"

	"github.com/futig/docs-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic in a handler into a log entry and an
// apology to the chat, so one bad update does not stop the bot.
type RecoveryMiddleware struct {
	logger *zap.Logger
	bot    Sender
}

func NewRecoveryMiddleware(logger *zap.Logger, bot Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger: logger,
		bot:    bot,
	}
}

func (m *RecoveryMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		chatID := chatOf(update)
		m.logger.Error("panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()),
			zap.Int("update_id", update.UpdateID),
			zap.Int64("chat_id", chatID),
		)

		if chatID == 0 {
			return
		}
		if _, err := m.bot.Send(tgbotapi.NewMessage(chatID, render.ErrGeneric)); err != nil {
			m.logger.Error("failed to send error message",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
		}
	}()

	next(update)
}

// chatOf returns the chat an update belongs to, or 0 when it has none.
func chatOf(update tgbotapi.Update) int64 {
	if chat := update.FromChat(); chat != nil {
		return chat.ID
	}
	return 0
}
