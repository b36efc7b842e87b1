package telegram

import (
	"context"
	"fmt"

	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/telegram/bot"
	"github.com/futig/docs-assistant/internal/telegram/handlers"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot. Every chat gets its own session
// configured with defaults.
func NewBot(
	cfg *config.TelegramConfig,
	sessionUC handlers.SessionUsecase,
	defaults entity.Configuration,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, sessionUC, defaults, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")
	return b, nil
}
