package middleware

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/futig/docs-assistant/internal/pkg/logger"
	"github.com/futig/docs-assistant/internal/telegram/handlers"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// LoggingMiddleware writes one entry per update, tagged with the chat's
// assistant session.
type LoggingMiddleware struct {
	logger *zap.Logger
}

func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

func (m *LoggingMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	start := time.Now()
	ctx := ctxzap.ToContext(context.Background(), m.logger)
	ctx = logger.AddFields(ctx, zap.Int("update_id", update.UpdateID))

	if msg := update.Message; msg != nil && msg.Chat != nil {
		ctx = logger.WithSession(ctx, handlers.SessionID(msg.Chat.ID))
		ctx = logger.AddFields(ctx, zap.Int64("chat_id", msg.Chat.ID))
		if msg.From != nil {
			ctx = logger.AddFields(ctx, zap.Int64("user_id", msg.From.ID))
		}
		switch {
		case msg.IsCommand():
			ctx = logger.WithAction(ctx, "command_"+msg.Command())
		case msg.Text != "":
			ctx = logger.WithAction(ctx, "question")
			ctx = logger.AddFields(ctx, zap.Int("question_len", utf8.RuneCountInString(msg.Text)))
		default:
			ctx = logger.WithAction(ctx, "unsupported")
		}
	} else {
		ctx = logger.WithAction(ctx, "ignored")
	}

	next(update)

	ctxzap.Info(ctx, "telegram update handled", zap.Duration("duration", time.Since(start)))
}
