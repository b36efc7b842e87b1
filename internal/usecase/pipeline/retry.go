package pipeline

import (
	"context"
	"errors"

	"github.com/avast/retry-go/v4"
	"github.com/futig/docs-assistant/internal/entity"
	pkgRetry "github.com/futig/docs-assistant/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Asker interface {
	Ask(ctx context.Context, question string) (*entity.ChatMessage, error)
}

var errTransientAnswer = errors.New("query failed with a transient error")

// AskWithRetry resubmits question while the answer is an error message with
// a transient cause. Errors returned by Ask itself are never retried. Every
// attempt is recorded in the conversation log.
func AskWithRetry(ctx context.Context, asker Asker, question string, cfg pkgRetry.RetryConfig) (*entity.ChatMessage, error) {
	var last *entity.ChatMessage

	opts := append(cfg.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errTransientAnswer)
		}),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Info(ctx, "retrying query", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)

	err := retry.Do(func() error {
		msg, err := asker.Ask(ctx, question)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		last = msg
		if msg.IsError && msg.Retryable {
			return errTransientAnswer
		}
		return nil
	}, opts...)

	if last != nil {
		return last, nil
	}
	return nil, err
}
