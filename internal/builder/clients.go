package builder

import (
	"context"
	"fmt"

	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/integration/embedding"
	"github.com/futig/docs-assistant/internal/integration/llm"
	"github.com/futig/docs-assistant/internal/integration/vectorindex"
	"github.com/futig/docs-assistant/internal/usecase/pipeline"
	"go.uber.org/zap"
)

// clientFactory builds connectors bound to the credentials of one
// configuration.
type clientFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (f *clientFactory) NewClients(ctx context.Context, c entity.Configuration) (*pipeline.Clients, error) {
	embedder, err := embedding.NewConnector(ctx, f.cfg.EmbeddingCfg, c.GenerativeAPIKey, f.logger)
	if err != nil {
		return nil, fmt.Errorf("create embedding connector: %w", err)
	}

	return &pipeline.Clients{
		Embedder:    embedder,
		VectorIndex: vectorindex.NewConnector(f.cfg.VectorIndexCfg, c.VectorAPIKey, c.IndexName, f.logger),
		Generator:   llm.NewConnector(f.cfg.LLMCfg, c.GenerativeAPIKey, f.logger),
	}, nil
}

type mockClientFactory struct {
	dimension int
	logger    *zap.Logger
}

func (f *mockClientFactory) NewClients(_ context.Context, c entity.Configuration) (*pipeline.Clients, error) {
	return &pipeline.Clients{
		Embedder:    embedding.NewMockConnector(f.dimension, f.logger),
		VectorIndex: vectorindex.NewMockConnector(c.IndexName, f.logger),
		Generator:   llm.NewMockConnector(f.logger),
	}, nil
}

func newClientFactory(cfg *config.Config, logger *zap.Logger) pipeline.ClientFactory {
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		return &mockClientFactory{dimension: cfg.EmbeddingCfg.Dimension, logger: logger}
	}

	logger.Info("Using real connectors for external services")
	return &clientFactory{cfg: cfg, logger: logger}
}
