package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.LLMConfig{
		HTTPClientConfig: config.HTTPClientConfig{RequestTimeout: 5 * time.Second},
		BaseURL:          server.URL,
		Model:            "gemini-1.5-flash-latest",
		Temperature:      0.7,
		MaxOutputTokens:  2048,
		TopP:             0.8,
		TopK:             40,
	}
	return NewConnector(cfg, "gm-key", zaptest.NewLogger(t))
}

func TestConnector_Generate(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		gotReq  entity.GenerateContentRequest
	)
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Use thrombolysis."},{"text":"ignored"}]},"finishReason":"STOP"}]}`))
	})

	answer, err := conn.Generate(context.Background(), "prompt text")
	require.NoError(t, err)

	assert.Equal(t, "Use thrombolysis.", answer)
	assert.Equal(t, "/v1beta/models/gemini-1.5-flash-latest:generateContent", gotPath)
	assert.Equal(t, "gm-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "prompt text", gotReq.Contents[0].Parts[0].Text)
	assert.Equal(t, entity.GenerationConfig{Temperature: 0.7, MaxOutputTokens: 2048, TopP: 0.8, TopK: 40}, gotReq.GenerationConfig)
}

func TestConnector_Generate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   entity.ErrorKind
	}{
		{"no candidates", http.StatusOK, `{"candidates":[]}`, entity.KindMalformedResponse},
		{"blocked", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, entity.KindMalformedResponse},
		{"no parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`, entity.KindMalformedResponse},
		{"no content", http.StatusOK, `{"candidates":[{"finishReason":"SAFETY"}]}`, entity.KindMalformedResponse},
		{"invalid key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`, entity.KindAuthenticationFailed},
		{"quota", http.StatusTooManyRequests, `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`, entity.KindRateLimited},
		{"overloaded", http.StatusServiceUnavailable, `{"error":{"code":503,"status":"UNAVAILABLE"}}`, entity.KindServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := conn.Generate(context.Background(), "prompt")
			require.Error(t, err)
			assert.Equal(t, tt.want, entity.KindOf(err))
		})
	}
}

func TestMockConnector_Generate(t *testing.T) {
	mock := NewMockConnector(zaptest.NewLogger(t))

	answer, err := mock.Generate(context.Background(), "Document: a.pdf\nContent: x\n\nDocument: b.pdf\nContent: y")
	require.NoError(t, err)
	assert.Contains(t, answer, "a.pdf, b.pdf")

	_, err = mock.Generate(context.Background(), "  ")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
