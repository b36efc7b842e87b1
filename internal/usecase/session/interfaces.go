package session

import (
	"context"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/pkg/formatter"
)

type Pipeline interface {
	Configure(ctx context.Context, cfg entity.Configuration) error
	Ask(ctx context.Context, question string) (*entity.ChatMessage, error)
	Reset(ctx context.Context)
	State() entity.PipelineState
	Messages() []entity.ChatMessage
	Configuration() (entity.Configuration, bool)
	LatestSources() []entity.RetrievedMatch
}

// NewPipelineFunc returns a fresh, unconfigured pipeline.
type NewPipelineFunc func() Pipeline

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
