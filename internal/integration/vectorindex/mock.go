package vectorindex

import (
	"context"
	"fmt"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var mockMatches = []entity.RetrievedMatch{
	{
		ID:         "doc1-chunk1",
		Score:      0.95,
		SourceName: "stroke_treatment_guidelines.pdf",
		Text:       "Acute ischemic stroke treatment should begin within the first hours of symptom onset. Intravenous thrombolysis is recommended for eligible patients within 4.5 hours.",
	},
	{
		ID:         "doc2-chunk3",
		Score:      0.88,
		SourceName: "rehabilitation_protocols.pdf",
		Text:       "Early mobilization and structured rehabilitation improve functional outcomes after stroke. Physical, occupational and speech therapy should start as soon as the patient is stable.",
	},
	{
		ID:         "doc3-chunk7",
		Score:      0.82,
		SourceName: "stroke_prevention_study.pdf",
		Text:       "Secondary prevention includes blood pressure control, antiplatelet therapy, statins and lifestyle changes such as smoking cessation and regular exercise.",
	},
}

// MockConnector returns a fixed set of matches regardless of the query vector.
type MockConnector struct {
	indexName string
	logger    *zap.Logger
}

func NewMockConnector(indexName string, logger *zap.Logger) *MockConnector {
	return &MockConnector{
		indexName: indexName,
		logger:    logger,
	}
}

func (m *MockConnector) Query(ctx context.Context, vector entity.EmbeddingVector, topK int) ([]entity.RetrievedMatch, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top_k must be at least 1", entity.ErrInvalidInput)
	}

	n := min(topK, len(mockMatches))
	out := make([]entity.RetrievedMatch, n)
	copy(out, mockMatches[:n])

	ctxzap.Info(ctx, "[MOCK] querying vector index",
		zap.String("index", m.indexName),
		zap.Int("dimension", len(vector)),
		zap.Int("match_count", n),
	)
	return out, nil
}
