package entity

import (
	"context"
	"errors"
)

// ErrorKind names a failure class of the query pipeline.
type ErrorKind string

const (
	KindInvalidConfiguration ErrorKind = "InvalidConfiguration"
	KindNotConfigured        ErrorKind = "NotConfigured"
	KindInvalidInput         ErrorKind = "InvalidInput"
	KindBusy                 ErrorKind = "Busy"
	KindAuthenticationFailed ErrorKind = "AuthenticationFailed"
	KindIndexNotFound        ErrorKind = "IndexNotFound"
	KindRateLimited          ErrorKind = "RateLimited"
	KindServiceUnavailable   ErrorKind = "ServiceUnavailable"
	KindMalformedResponse    ErrorKind = "MalformedResponse"
	KindEmbeddingFailed      ErrorKind = "EmbeddingFailed"
	KindUnknown              ErrorKind = "Unknown"
)

// Pipeline errors
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNotConfigured        = errors.New("pipeline is not configured")
	ErrInvalidInput         = errors.New("invalid input")
	ErrBusy                 = errors.New("a query is already in flight")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrIndexNotFound        = errors.New("index not found")
	ErrRateLimited          = errors.New("rate limited")
	ErrServiceUnavailable   = errors.New("service unavailable")
	ErrMalformedResponse    = errors.New("malformed response")
	ErrEmbeddingFailed      = errors.New("embedding failed")

	// ErrResultDiscarded is returned by Ask when the pipeline was reset or
	// reconfigured while the query was in flight.
	ErrResultDiscarded = errors.New("query result discarded after reset")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidFormat   = errors.New("invalid format")
)

// kindOrder lists the sentinels from most to least specific. EmbeddingFailed
// comes first because embedding errors also wrap their transport cause.
var kindOrder = []struct {
	err  error
	kind ErrorKind
}{
	{ErrEmbeddingFailed, KindEmbeddingFailed},
	{ErrInvalidConfiguration, KindInvalidConfiguration},
	{ErrNotConfigured, KindNotConfigured},
	{ErrInvalidInput, KindInvalidInput},
	{ErrBusy, KindBusy},
	{ErrAuthenticationFailed, KindAuthenticationFailed},
	{ErrIndexNotFound, KindIndexNotFound},
	{ErrRateLimited, KindRateLimited},
	{ErrServiceUnavailable, KindServiceUnavailable},
	{ErrMalformedResponse, KindMalformedResponse},
}

// KindOf classifies err. Unclassified errors, including nil, are KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindServiceUnavailable
	}
	return KindUnknown
}

// IsRetryable reports whether err, or any error it wraps, is transient.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}
