package pipeline

import (
	"context"

	"github.com/futig/docs-assistant/internal/entity"
)

type Embedder interface {
	Embed(ctx context.Context, text string) (entity.EmbeddingVector, error)
}

type VectorIndex interface {
	Query(ctx context.Context, vector entity.EmbeddingVector, topK int) ([]entity.RetrievedMatch, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Clients are the remote collaborators bound to one Configuration.
type Clients struct {
	Embedder    Embedder
	VectorIndex VectorIndex
	Generator   Generator
}

// ClientFactory builds the clients for a validated Configuration.
type ClientFactory interface {
	NewClients(ctx context.Context, cfg entity.Configuration) (*Clients, error)
}

// ConfigurationValidator checks pipeline input before any state changes.
type ConfigurationValidator interface {
	ValidateConfiguration(cfg *entity.Configuration) error
	ValidateQuestion(question string) error
}
