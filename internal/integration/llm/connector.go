package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/integration/common"
	pkghttp "github.com/futig/docs-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	serviceName  = "generative service"
	apiKeyHeader = "x-goog-api-key"
)

type Connector struct {
	config    config.LLMConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConfig,
	apiKey string,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(strings.TrimSuffix(cfg.BaseURL, "/"), cfg.HTTPClientConfig, apiKeyHeader, apiKey, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Generate sends prompt as a single user turn and returns the text of the
// first part of the first candidate.
func (c *Connector) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt", entity.ErrInvalidInput)
	}

	req := &entity.GenerateContentRequest{
		Contents: []entity.GenerativeContent{
			{
				Role:  "user",
				Parts: []entity.GenerativePart{{Text: prompt}},
			},
		},
		GenerationConfig: entity.GenerationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
			TopP:            c.config.TopP,
			TopK:            c.config.TopK,
		},
	}

	endpoint := fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(c.config.Model))

	ctxzap.Debug(ctx, "generating answer", zap.String("model", c.config.Model), zap.Int("prompt_length", len(prompt)))

	var resp entity.GenerateContentResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		ctxzap.Warn(ctx, "generate content failed", zap.Error(err))
		return "", common.Classify(serviceName, err, nil)
	}

	answer, err := extractAnswer(&resp)
	if err != nil {
		return "", err
	}

	ctxzap.Debug(ctx, "answer generated", zap.Int("answer_length", len(answer)))
	return answer, nil
}

func extractAnswer(resp *entity.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked: %s", entity.ErrMalformedResponse, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: %s returned no candidates", entity.ErrMalformedResponse, serviceName)
	}

	first := resp.Candidates[0]
	if first.Content == nil || len(first.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: first candidate has no content (finish reason %q)", entity.ErrMalformedResponse, first.FinishReason)
	}

	text := first.Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: first candidate has empty text", entity.ErrMalformedResponse)
	}

	return text, nil
}
