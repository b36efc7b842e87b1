package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
)

var sources = []entity.RetrievedMatch{
	{ID: "a", Score: 0.95, SourceName: "guidelines.pdf", Text: "Treat   early.\nAlways."},
	{ID: "b", Score: 0.875, SourceName: "rehab.pdf", Text: "Mobilize."},
}

func TestAnswer(t *testing.T) {
	got := Answer(&entity.ChatMessage{Content: "Use thrombolysis.", Sources: sources})
	assert.Equal(t, "Use thrombolysis.\n\n📚 Sources:\n1. guidelines.pdf (95% relevant)\n2. rehab.pdf (88% relevant)", got)
}

func TestAnswer_WithoutSources(t *testing.T) {
	assert.Equal(t, "No context.", Answer(&entity.ChatMessage{Content: "No context.", Sources: []entity.RetrievedMatch{}}))

	errMsg := &entity.ChatMessage{Content: "Sorry", IsError: true, Sources: sources}
	assert.Equal(t, "Sorry", Answer(errMsg))
}

func TestSources(t *testing.T) {
	got := Sources(sources)
	assert.True(t, strings.HasPrefix(got, "📚 Sources of the last answer:"))
	assert.Contains(t, got, "1. guidelines.pdf (95% relevant)\nTreat early. Always.")
	assert.Contains(t, got, "2. rehab.pdf")

	assert.Equal(t, MsgNoSources, Sources(nil))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "абв…", excerpt("абвгд", 3))
}

func TestConfigurationError(t *testing.T) {
	assert.Contains(t, ConfigurationError(errors.New("vector_api_key is required")), "vector_api_key is required")
}
