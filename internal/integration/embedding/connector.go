package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/integration/common"
	pkghttp "github.com/futig/docs-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const serviceName = "embedding service"

// Connector embeds text with a Gemini embedding model.
type Connector struct {
	client    *genai.Client
	model     string
	dimension int
	logger    *zap.Logger
}

func NewConnector(
	ctx context.Context,
	cfg config.EmbeddingConfig,
	apiKey string,
	logger *zap.Logger,
) (*Connector, error) {
	httpClient := pkghttp.NewClient(
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
	)

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Connector{
		client:    client,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		logger:    logger,
	}, nil
}

// Dimension is the fixed length of every vector this connector returns.
func (c *Connector) Dimension() int {
	return c.dimension
}

// Embed returns the embedding of text. Blank text fails with ErrInvalidInput;
// every downstream failure is wrapped in ErrEmbeddingFailed.
func (c *Connector) Embed(ctx context.Context, text string) (entity.EmbeddingVector, error) {
	clean := normalizeWhitespace(text)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty text for embedding", entity.ErrInvalidInput)
	}

	start := time.Now()
	resp, err := c.client.Models.EmbedContent(
		ctx,
		c.model,
		genai.Text(clean),
		&genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(int32(c.dimension)),
		},
	)
	if err != nil {
		ctxzap.Warn(ctx, "embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entity.ErrEmbeddingFailed, classify(err))
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("%w: %w: no embeddings returned", entity.ErrEmbeddingFailed, entity.ErrMalformedResponse)
	}

	values := resp.Embeddings[0].Values
	if len(values) != c.dimension {
		return nil, fmt.Errorf("%w: %w: unexpected embedding size %d (expected %d)",
			entity.ErrEmbeddingFailed, entity.ErrMalformedResponse, len(values), c.dimension)
	}

	ctxzap.Debug(ctx, "text embedded",
		zap.Int("text_length", len(clean)),
		zap.Int("dimension", len(values)),
		zap.Duration("duration", time.Since(start)),
	)

	out := make(entity.EmbeddingVector, len(values))
	copy(out, values)
	return out, nil
}

// classify converts genai errors into connector errors so they share the
// taxonomy mapping of the REST connectors.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return common.Classify(serviceName, &pkghttp.HTTPError{
			StatusCode: apiErr.Code,
			Message:    apiErr.Status + ": " + apiErr.Message,
		}, nil)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return common.Classify(serviceName, &pkghttp.HTTPError{
			StatusCode: apiErrPtr.Code,
			Message:    apiErrPtr.Status + ": " + apiErrPtr.Message,
		}, nil)
	}
	return common.Classify(serviceName, &pkghttp.NetworkError{Err: err}, nil)
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
