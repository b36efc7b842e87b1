package session

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/pkg/logger"
	pkgRetry "github.com/futig/docs-assistant/internal/pkg/retry"
	"github.com/futig/docs-assistant/internal/usecase/pipeline"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type entry struct {
	pipeline  Pipeline
	createdAt time.Time
}

// SessionUsecase keeps one pipeline per conversation. Sessions live in
// memory and expire after a period without access.
type SessionUsecase struct {
	sessions    *cache.Cache
	newPipeline NewPipelineFunc
	formatters  FormatterFactory
	askRetry    pkgRetry.RetryConfig
	logger      *zap.Logger
}

func NewUsecase(
	cfg config.SessionConfig,
	askRetry pkgRetry.RetryConfig,
	newPipeline NewPipelineFunc,
	formatters FormatterFactory,
	logger *zap.Logger,
) *SessionUsecase {
	sessions := cache.New(cfg.IdleTTL, cfg.CleanupInterval)
	sessions.OnEvicted(func(id string, _ any) {
		logger.Info("session evicted", zap.String("session_id", id))
	})

	return &SessionUsecase{
		sessions:    sessions,
		newPipeline: newPipeline,
		formatters:  formatters,
		askRetry:    askRetry,
		logger:      logger,
	}
}

// CreateSession registers a new unconfigured session.
func (uc *SessionUsecase) CreateSession(ctx context.Context) (*entity.Session, error) {
	id := uuid.NewString()
	e := &entry{pipeline: uc.newPipeline(), createdAt: time.Now()}
	if err := uc.sessions.Add(id, e, cache.DefaultExpiration); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}

	ctxzap.Info(ctx, "session created", zap.String("session_id", id))
	return snapshot(id, e), nil
}

// GetOrCreate returns the session registered under id, creating it when
// missing. The flag reports whether it was created.
func (uc *SessionUsecase) GetOrCreate(ctx context.Context, id string) (*entity.Session, bool) {
	if e, err := uc.get(id); err == nil {
		return snapshot(id, e), false
	}

	e := &entry{pipeline: uc.newPipeline(), createdAt: time.Now()}
	if err := uc.sessions.Add(id, e, cache.DefaultExpiration); err != nil {
		// created concurrently
		existing, _ := uc.get(id)
		if existing != nil {
			return snapshot(id, existing), false
		}
		uc.sessions.SetDefault(id, e)
	}

	ctxzap.Info(ctx, "session created", zap.String("session_id", id))
	return snapshot(id, e), true
}

func (uc *SessionUsecase) Configure(ctx context.Context, id string, cfg entity.Configuration) (*entity.Session, error) {
	e, err := uc.get(id)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithSession(ctx, id)
	if err := e.pipeline.Configure(ctx, cfg); err != nil {
		return nil, err
	}
	return snapshot(id, e), nil
}

// Ask forwards question to the session pipeline, applying the caller-level
// retry policy to transient failures.
func (uc *SessionUsecase) Ask(ctx context.Context, id, question string) (*entity.ChatMessage, entity.PipelineState, error) {
	e, err := uc.get(id)
	if err != nil {
		return nil, "", err
	}

	ctx = logger.WithSession(ctx, id)
	msg, err := pipeline.AskWithRetry(ctx, e.pipeline, question, uc.askRetry)
	if err != nil {
		return nil, e.pipeline.State(), err
	}
	return msg, e.pipeline.State(), nil
}

func (uc *SessionUsecase) Messages(_ context.Context, id string) ([]entity.ChatMessage, error) {
	e, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	return e.pipeline.Messages(), nil
}

// Sources returns the sources of the latest successful answer.
func (uc *SessionUsecase) Sources(_ context.Context, id string) ([]entity.RetrievedMatch, error) {
	e, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	return e.pipeline.LatestSources(), nil
}

func (uc *SessionUsecase) Status(_ context.Context, id string) (*entity.Session, error) {
	e, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	return snapshot(id, e), nil
}

func (uc *SessionUsecase) Reset(ctx context.Context, id string) (*entity.Session, error) {
	e, err := uc.get(id)
	if err != nil {
		return nil, err
	}

	e.pipeline.Reset(logger.WithSession(ctx, id))
	return snapshot(id, e), nil
}

func (uc *SessionUsecase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(id); err != nil {
		return err
	}
	uc.sessions.Delete(id)

	ctxzap.Info(ctx, "session deleted", zap.String("session_id", id))
	return nil
}

// Export renders the conversation log of the session in format.
func (uc *SessionUsecase) Export(ctx context.Context, id string, format entity.ResultFormat) (*entity.Document, error) {
	e, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %q (expected markdown, docx or pdf)", entity.ErrInvalidFormat, format)
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	content, err := f.Format(e.pipeline.Messages())
	if err != nil {
		return nil, fmt.Errorf("format transcript: %w", err)
	}

	ctxzap.Debug(ctx, "transcript exported",
		zap.String("session_id", id),
		zap.String("format", string(format)),
		zap.Int("size", len(content)),
	)

	return &entity.Document{
		FileName:    "transcript-" + id + f.FileExtension(),
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}

// get returns the session entry and extends its idle deadline.
func (uc *SessionUsecase) get(id string) (*entry, error) {
	v, ok := uc.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	e := v.(*entry)
	uc.sessions.SetDefault(id, e)
	return e, nil
}

func snapshot(id string, e *entry) *entity.Session {
	s := &entity.Session{
		ID:           id,
		State:        e.pipeline.State(),
		MessageCount: len(e.pipeline.Messages()),
		CreatedAt:    e.createdAt,
	}
	if cfg, ok := e.pipeline.Configuration(); ok {
		s.IndexName = cfg.IndexName
		s.TopK = cfg.TopK
	}
	return s
}
