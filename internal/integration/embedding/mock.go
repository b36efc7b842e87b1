package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector derives a unit vector from a hash of the normalized text.
// Identical text always yields the identical vector.
type MockConnector struct {
	dimension int
	logger    *zap.Logger
}

func NewMockConnector(dimension int, logger *zap.Logger) *MockConnector {
	return &MockConnector{
		dimension: dimension,
		logger:    logger,
	}
}

func (m *MockConnector) Dimension() int {
	return m.dimension
}

func (m *MockConnector) Embed(ctx context.Context, text string) (entity.EmbeddingVector, error) {
	clean := normalizeWhitespace(text)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty text for embedding", entity.ErrInvalidInput)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(clean))
	state := h.Sum64()

	vec := make(entity.EmbeddingVector, m.dimension)
	var norm float64
	for i := range vec {
		state = splitmix64(state)
		v := float64(state>>11)/float64(1<<53)*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}
	if norm > 0 {
		scale := 1 / math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * scale)
		}
	}

	ctxzap.Debug(ctx, "[MOCK] text embedded", zap.Int("dimension", m.dimension))
	return vec, nil
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
