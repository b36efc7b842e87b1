package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// typingInterval is below the 5 second lifetime of a chat action.
const typingInterval = 4 * time.Second

// startTyping shows the "typing" indicator in chatID until the returned stop
// function is called or ctx is done. stop waits for the notifier to exit.
func startTyping(ctx context.Context, bot BotAPI, chatID int64, logger *zap.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	send := func() {
		if _, err := bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			logger.Warn("failed to send typing action",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
		}
	}

	send()
	go func() {
		defer close(done)

		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				send()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
