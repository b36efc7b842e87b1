package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers every prompt with a canned reply that names the
// documents quoted in the prompt.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt", entity.ErrInvalidInput)
	}

	var sources []string
	for line := range strings.SplitSeq(prompt, "\n") {
		if name, ok := strings.CutPrefix(line, "Document: "); ok {
			sources = append(sources, name)
		}
	}

	ctxzap.Info(ctx, "[MOCK] generating answer", zap.Int("prompt_length", len(prompt)), zap.Int("source_count", len(sources)))

	if len(sources) == 0 {
		return "The provided documents do not contain information to answer this question.", nil
	}
	return fmt.Sprintf("This is a mock answer based on the following documents: %s.", strings.Join(sources, ", ")), nil
}
