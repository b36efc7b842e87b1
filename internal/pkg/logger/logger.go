package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields adds fields to the logger in context and returns new context
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction adds "action" field to context logger to describe the flow
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithSession tags every entry logged with ctx with the session it belongs to.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return AddFields(ctx, zap.String("session_id", sessionID))
}

// Stage logs the outcome of one pipeline stage at debug level, or at warn
// level when err is set.
func Stage(ctx context.Context, stage string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("stage", stage))
	if err != nil {
		ctxzap.Warn(ctx, "pipeline stage failed", append(fields, zap.Error(err))...)
		return
	}
	ctxzap.Debug(ctx, "pipeline stage completed", fields...)
}
