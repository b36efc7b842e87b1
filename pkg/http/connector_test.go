package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type echo struct {
	Value string `json:"value"`
}

func newTestConnector(t *testing.T, url string, opts ...HttpOpts) *Connector {
	t.Helper()
	return NewConnector(&ConnectorConfig{BaseURL: url, Logger: zaptest.NewLogger(t)}, opts...)
}

func TestDoRequest_JSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/echo", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Api-Key"))
		assert.Equal(t, "2024-07", r.Header.Get("X-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in echo
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(echo{Value: in.Value + "!"})
	}))
	defer srv.Close()

	c := newTestConnector(t, srv.URL, WithAPIKey("Api-Key", "secret"), WithRequestLogging())

	var out echo
	err := c.DoRequest(context.Background(), http.MethodPost, "/echo", echo{Value: "hi"}, &out, WithHeader("X-Version", "2024-07"))
	require.NoError(t, err)
	assert.Equal(t, "hi!", out.Value)
}

func TestDoRequest_OverrideURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	c := newTestConnector(t, "http://unused.invalid")

	var out echo
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "", nil, &out, WithURL(srv.URL+"/query")))
	assert.Equal(t, "ok", out.Value)
}

func TestDoRequest_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "http error",
			status: http.StatusUnauthorized,
			body:   "invalid key",
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
				assert.Equal(t, "invalid key", httpErr.Message)
			},
		},
		{
			name:   "error body truncated",
			status: http.StatusInternalServerError,
			body:   strings.Repeat("x", maxErrorBodySize+100),
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Len(t, httpErr.Message, maxErrorBodySize)
			},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   "not json",
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				assert.ErrorAs(t, err, &decodeErr)
			},
		},
		{
			name:   "empty body",
			status: http.StatusOK,
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				assert.ErrorAs(t, err, &decodeErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out echo
			err := newTestConnector(t, srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, &out)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDoRequest_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := newTestConnector(t, srv.URL).DoRequest(ctx, http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Api-Key", "secret")
	h.Set("X-Goog-Api-Key", "secret")
	h.Set("Accept", "application/json")

	out := redactHeaders(h)

	assert.Equal(t, redacted, out.Get("Api-Key"))
	assert.Equal(t, redacted, out.Get("X-Goog-Api-Key"))
	assert.Equal(t, "application/json", out.Get("Accept"))
	assert.Equal(t, "secret", h.Get("Api-Key"))
}
