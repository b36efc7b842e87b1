package common

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/futig/docs-assistant/internal/entity"
	pkgHTTP "github.com/futig/docs-assistant/pkg/http"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound error
		want     entity.ErrorKind
	}{
		{"unauthorized", &pkgHTTP.HTTPError{StatusCode: 401}, nil, entity.KindAuthenticationFailed},
		{"forbidden", &pkgHTTP.HTTPError{StatusCode: 403}, nil, entity.KindAuthenticationFailed},
		{"gemini invalid key", &pkgHTTP.HTTPError{StatusCode: 400, Message: `{"error":{"status":"INVALID_ARGUMENT","details":[{"reason":"API_KEY_INVALID"}]}}`}, nil, entity.KindAuthenticationFailed},
		{"plain bad request", &pkgHTTP.HTTPError{StatusCode: 400, Message: "bad"}, nil, entity.KindUnknown},
		{"index 404", &pkgHTTP.HTTPError{StatusCode: 404}, entity.ErrIndexNotFound, entity.KindIndexNotFound},
		{"generic 404", &pkgHTTP.HTTPError{StatusCode: 404}, nil, entity.KindUnknown},
		{"rate limited", &pkgHTTP.HTTPError{StatusCode: 429}, nil, entity.KindRateLimited},
		{"server error", &pkgHTTP.HTTPError{StatusCode: 503}, nil, entity.KindServiceUnavailable},
		{"decode", &pkgHTTP.DecodeError{Err: errors.New("unexpected EOF")}, nil, entity.KindMalformedResponse},
		{"network", &pkgHTTP.NetworkError{Err: errors.New("connection refused")}, nil, entity.KindServiceUnavailable},
		{"network timeout", &pkgHTTP.NetworkError{Err: timeoutErr{}}, nil, entity.KindServiceUnavailable},
		{"deadline", context.DeadlineExceeded, nil, entity.KindServiceUnavailable},
		{"cancelled", &pkgHTTP.NetworkError{Err: context.Canceled}, nil, entity.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("svc", tt.err, tt.notFound)
			assert.Equal(t, tt.want, entity.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, Classify("svc", nil, nil))
}
