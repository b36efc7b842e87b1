package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/integration/embedding"
	"github.com/futig/docs-assistant/internal/integration/llm"
	"github.com/futig/docs-assistant/internal/integration/vectorindex"
	"github.com/futig/docs-assistant/internal/pkg/formatter"
	pkgRetry "github.com/futig/docs-assistant/internal/pkg/retry"
	"github.com/futig/docs-assistant/internal/pkg/validator"
	"github.com/futig/docs-assistant/internal/usecase/pipeline"
	sessionuc "github.com/futig/docs-assistant/internal/usecase/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type mockFactory struct {
	logger *zap.Logger
}

func (f *mockFactory) NewClients(_ context.Context, cfg entity.Configuration) (*pipeline.Clients, error) {
	return &pipeline.Clients{
		Embedder:    embedding.NewMockConnector(8, f.logger),
		VectorIndex: vectorindex.NewMockConnector(cfg.IndexName, f.logger),
		Generator:   llm.NewMockConnector(f.logger),
	}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zaptest.NewLogger(t)
	factory := &mockFactory{logger: log}
	v := validator.New(20)

	uc := sessionuc.NewUsecase(
		config.SessionConfig{IdleTTL: time.Hour, CleanupInterval: time.Minute},
		*pkgRetry.DefaultRetryConfig(),
		func() sessionuc.Pipeline {
			return pipeline.New(factory, v, pipeline.Options{Greeting: "Hi", StageTimeout: time.Second}, log)
		},
		formatter.NewFactory(),
		log,
	)

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, server *httptest.Server) entity.Session {
	resp := do(t, http.MethodPost, server.URL+"/sessions/", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[entity.Session](t, resp)
}

func TestHandler_Flow(t *testing.T) {
	server := newTestServer(t)
	s := createSession(t, server)
	base := server.URL + "/sessions/" + s.ID

	resp := do(t, http.MethodPost, base+"/ask", entity.AskRequest{Question: "What is a stroke?"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errResp := decode[entity.ErrorResponse](t, resp)
	assert.Equal(t, entity.KindNotConfigured, errResp.Kind)

	resp = do(t, http.MethodPost, base+"/configure", entity.ConfigureRequest{
		GenerativeAPIKey: "k1", VectorAPIKey: "k2", IndexName: "stroke", TopK: 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	configured := decode[entity.Session](t, resp)
	assert.Equal(t, entity.StateReady, configured.State)

	resp = do(t, http.MethodPost, base+"/ask", entity.AskRequest{Question: "What are stroke prevention measures?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ask := decode[entity.AskResponse](t, resp)
	assert.Equal(t, entity.StateReady, ask.State)
	assert.False(t, ask.Message.IsError)
	assert.Len(t, ask.Message.Sources, 3)

	resp = do(t, http.MethodGet, base+"/messages", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[entity.MessagesResponse](t, resp).Messages, 3)

	resp = do(t, http.MethodGet, base+"/sources", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ask.Message.Sources, decode[entity.SourcesResponse](t, resp).Sources)

	resp = do(t, http.MethodGet, base+"/export?format=markdown", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "transcript-"+s.ID+".md")

	resp = do(t, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[entity.Session](t, resp).MessageCount)

	resp = do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_Errors(t *testing.T) {
	server := newTestServer(t)
	s := createSession(t, server)
	base := server.URL + "/sessions/" + s.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		kind   entity.ErrorKind
	}{
		{"unknown session", http.MethodGet, "/sessions/nope", nil, http.StatusNotFound, ""},
		{"missing fields", http.MethodPost, "/sessions/" + s.ID + "/configure", entity.ConfigureRequest{IndexName: "stroke", TopK: 1}, http.StatusBadRequest, entity.KindInvalidConfiguration},
		{"top k too large", http.MethodPost, "/sessions/" + s.ID + "/configure", entity.ConfigureRequest{GenerativeAPIKey: "a", VectorAPIKey: "b", IndexName: "c", TopK: 100}, http.StatusBadRequest, entity.KindInvalidConfiguration},
		{"bad format", http.MethodGet, "/sessions/" + s.ID + "/export?format=html", nil, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, server.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.kind, decode[entity.ErrorResponse](t, resp).Kind)
		})
	}

	resp := do(t, http.MethodPost, base+"/configure", entity.ConfigureRequest{
		GenerativeAPIKey: "k1", VectorAPIKey: "k2", IndexName: "stroke", TopK: 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/ask", entity.AskRequest{Question: "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, entity.KindInvalidInput, decode[entity.ErrorResponse](t, resp).Kind)

	req, err := http.NewRequest(http.MethodPost, base+"/ask", strings.NewReader("{not json"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}
