package session

import (
	"context"

	"github.com/futig/docs-assistant/internal/entity"
)

type SessionUsecase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	Status(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	Configure(ctx context.Context, id string, cfg entity.Configuration) (*entity.Session, error)
	Ask(ctx context.Context, id, question string) (*entity.ChatMessage, entity.PipelineState, error)
	Messages(ctx context.Context, id string) ([]entity.ChatMessage, error)
	Sources(ctx context.Context, id string) ([]entity.RetrievedMatch, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	Export(ctx context.Context, id string, format entity.ResultFormat) (*entity.Document, error)
}
