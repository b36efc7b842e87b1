package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/docs-assistant/internal/entity"
	pkgHTTP "github.com/futig/docs-assistant/pkg/http"
)

// Classify wraps a connector error with the matching taxonomy sentinel.
// notFound is used for 404 responses; pass nil when a 404 has no specific meaning.
func Classify(service string, err error, notFound error) error {
	if err == nil {
		return nil
	}

	var httpErr *pkgHTTP.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Errorf("%w: %s responded %w", statusKind(httpErr, notFound), service, err)
	}

	var decodeErr *pkgHTTP.DecodeError
	if errors.As(err, &decodeErr) {
		return fmt.Errorf("%w: %s: %w", entity.ErrMalformedResponse, service, err)
	}

	var netErr *pkgHTTP.NetworkError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %s timed out: %w", entity.ErrServiceUnavailable, service, err)
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s request cancelled: %w", service, err)
		}
		return fmt.Errorf("%w: %s unreachable: %w", entity.ErrServiceUnavailable, service, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out: %w", entity.ErrServiceUnavailable, service, err)
	}

	return fmt.Errorf("%s: %w", service, err)
}

func statusKind(httpErr *pkgHTTP.HTTPError, notFound error) error {
	switch code := httpErr.StatusCode; {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return entity.ErrAuthenticationFailed
	case code == http.StatusBadRequest && isInvalidKey(httpErr.Message):
		return entity.ErrAuthenticationFailed
	case code == http.StatusNotFound && notFound != nil:
		return notFound
	case code == http.StatusTooManyRequests:
		return entity.ErrRateLimited
	case code == http.StatusRequestTimeout || code >= 500:
		return entity.ErrServiceUnavailable
	default:
		return errUnexpectedStatus
	}
}

var errUnexpectedStatus = errors.New("unexpected status")

// Gemini answers 400 rather than 401 for a bad key.
func isInvalidKey(body string) bool {
	return strings.Contains(body, "API_KEY_INVALID") || strings.Contains(body, "API key not valid")
}
