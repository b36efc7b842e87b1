package handlers

import (
	"context"

	"github.com/futig/docs-assistant/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
}

// BotAPI is the part of *tgbotapi.BotAPI the handlers use.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type SessionUsecase interface {
	GetOrCreate(ctx context.Context, id string) (*entity.Session, bool)
	Configure(ctx context.Context, id string, cfg entity.Configuration) (*entity.Session, error)
	Ask(ctx context.Context, id, question string) (*entity.ChatMessage, entity.PipelineState, error)
	Messages(ctx context.Context, id string) ([]entity.ChatMessage, error)
	Sources(ctx context.Context, id string) ([]entity.RetrievedMatch, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	Export(ctx context.Context, id string, format entity.ResultFormat) (*entity.Document, error)
}
