package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/pkg/logger"
	"github.com/futig/docs-assistant/internal/usecase/prompt"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultStageTimeout = 30 * time.Second

type Options struct {
	// Greeting is appended on configure and reset. Empty disables it.
	Greeting string
	// StageTimeout bounds each remote call of a query.
	StageTimeout time.Duration
}

// Pipeline answers questions against a configured document index and keeps
// the conversation log of one session.
//
// At most one query runs at a time. Results of a query that completes after
// Reset or Configure are dropped.
type Pipeline struct {
	factory   ClientFactory
	validator ConfigurationValidator
	opts      Options
	logger    *zap.Logger

	busy       atomic.Bool
	generation atomic.Uint64

	mu            sync.RWMutex
	cfg           *entity.Configuration
	clients       *Clients
	log           []entity.ChatMessage
	latestSources []entity.RetrievedMatch
}

func New(factory ClientFactory, validator ConfigurationValidator, opts Options, logger *zap.Logger) *Pipeline {
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = defaultStageTimeout
	}
	return &Pipeline{
		factory:   factory,
		validator: validator,
		opts:      opts,
		logger:    logger,
	}
}

// Configure validates cfg and binds the pipeline to it. On failure the
// previous configuration, if any, stays in effect.
func (p *Pipeline) Configure(ctx context.Context, cfg entity.Configuration) error {
	ctx = logger.WithAction(ctx, "configure")

	if err := p.validator.ValidateConfiguration(&cfg); err != nil {
		ctxzap.Info(ctx, "configuration rejected", zap.Error(err))
		return err
	}

	clients, err := p.factory.NewClients(ctx, cfg)
	if err != nil {
		if !errors.Is(err, entity.ErrInvalidConfiguration) {
			err = fmt.Errorf("%w: %w", entity.ErrInvalidConfiguration, err)
		}
		ctxzap.Warn(ctx, "failed to build clients", zap.Error(err))
		return err
	}

	p.mu.Lock()
	p.cfg = &cfg
	p.clients = clients
	p.latestSources = nil
	p.generation.Add(1)
	p.appendGreetingLocked()
	p.mu.Unlock()

	ctxzap.Info(ctx, "pipeline configured",
		zap.String("index", cfg.IndexName),
		zap.Int("top_k", cfg.TopK),
	)
	return nil
}

// Ask runs one query and appends the question and its answer to the log.
//
// NotConfigured, InvalidInput and Busy are returned as errors and leave the
// log untouched. Failures of the remote stages are not returned: they produce
// an assistant message with IsError set. ErrResultDiscarded is returned when
// the pipeline was reset or reconfigured while the query was running.
func (p *Pipeline) Ask(ctx context.Context, question string) (*entity.ChatMessage, error) {
	ctx = logger.WithAction(ctx, "ask")

	if _, ok := p.Configuration(); !ok {
		return nil, entity.ErrNotConfigured
	}
	if err := p.validator.ValidateQuestion(question); err != nil {
		return nil, err
	}
	if !p.busy.CompareAndSwap(false, true) {
		return nil, entity.ErrBusy
	}
	defer p.busy.Store(false)

	p.mu.Lock()
	cfg, clients := *p.cfg, p.clients
	gen := p.generation.Load()
	p.log = append(p.log, newMessage(entity.RoleUser, question))
	p.mu.Unlock()

	start := time.Now()
	answer, matches, err := p.run(ctx, clients, cfg, question)

	var msg entity.ChatMessage
	if err != nil {
		kind := entity.KindOf(err)
		ctxzap.Warn(ctx, "query failed",
			zap.String("kind", string(kind)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		msg = newMessage(entity.RoleAssistant, errorText(kind, err))
		msg.IsError = true
		msg.ErrorKind = kind
		msg.Retryable = entity.IsRetryable(err)
	} else {
		msg = newMessage(entity.RoleAssistant, answer)
		msg.Sources = matches
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation.Load() != gen {
		ctxzap.Info(ctx, "discarding query result after reset")
		return nil, entity.ErrResultDiscarded
	}
	p.log = append(p.log, msg)
	if !msg.IsError {
		p.latestSources = slices.Clone(matches)
		ctxzap.Info(ctx, "query answered",
			zap.Int("match_count", len(matches)),
			zap.Duration("duration", time.Since(start)),
		)
	}

	out := cloneMessage(msg)
	return &out, nil
}

func (p *Pipeline) run(
	ctx context.Context,
	clients *Clients,
	cfg entity.Configuration,
	question string,
) (string, []entity.RetrievedMatch, error) {
	var vector entity.EmbeddingVector
	err := p.stage(ctx, "embed", func(ctx context.Context) (err error) {
		vector, err = clients.Embedder.Embed(ctx, question)
		return err
	})
	if err != nil {
		return "", nil, err
	}

	matches := []entity.RetrievedMatch{}
	err = p.stage(ctx, "search", func(ctx context.Context) error {
		found, err := clients.VectorIndex.Query(ctx, vector, cfg.TopK)
		if err != nil {
			return err
		}
		if len(found) > cfg.TopK {
			found = found[:cfg.TopK]
		}
		matches = append(matches, found...)
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	text := prompt.Assemble(question, matches)

	var answer string
	err = p.stage(ctx, "generate", func(ctx context.Context) (err error) {
		answer, err = clients.Generator.Generate(ctx, text)
		return err
	})
	if err != nil {
		return "", nil, err
	}

	return answer, matches, nil
}

// stage runs fn under the stage timeout. An expired stage deadline is
// reported as ServiceUnavailable.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	stageCtx, cancel := context.WithTimeout(ctx, p.opts.StageTimeout)
	defer cancel()

	start := time.Now()
	err := fn(stageCtx)
	if err != nil && ctx.Err() == nil && errors.Is(stageCtx.Err(), context.DeadlineExceeded) &&
		!errors.Is(err, entity.ErrServiceUnavailable) {
		err = fmt.Errorf("%w: %s stage timed out after %s: %w", entity.ErrServiceUnavailable, name, p.opts.StageTimeout, err)
	}

	logger.Stage(ctx, name, err, zap.Duration("duration", time.Since(start)))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Reset clears the log and drops any in-flight result. The greeting is
// re-appended when the pipeline is configured.
func (p *Pipeline) Reset(ctx context.Context) {
	p.mu.Lock()
	p.log = nil
	p.latestSources = nil
	p.generation.Add(1)
	if p.cfg != nil {
		p.appendGreetingLocked()
	}
	p.mu.Unlock()

	ctxzap.Info(ctx, "conversation reset")
}

func (p *Pipeline) State() entity.PipelineState {
	p.mu.RLock()
	configured := p.cfg != nil
	p.mu.RUnlock()

	switch {
	case !configured:
		return entity.StateUnconfigured
	case p.busy.Load():
		return entity.StateQuerying
	default:
		return entity.StateReady
	}
}

// Messages returns a snapshot of the conversation log.
func (p *Pipeline) Messages() []entity.ChatMessage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]entity.ChatMessage, len(p.log))
	for i, m := range p.log {
		out[i] = cloneMessage(m)
	}
	return out
}

// Configuration returns the active configuration.
func (p *Pipeline) Configuration() (entity.Configuration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cfg == nil {
		return entity.Configuration{}, false
	}
	return *p.cfg, true
}

// LatestSources returns the sources of the latest successful answer.
func (p *Pipeline) LatestSources() []entity.RetrievedMatch {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.latestSources)
}

func (p *Pipeline) appendGreetingLocked() {
	if p.opts.Greeting == "" {
		return
	}
	p.log = append(p.log, newMessage(entity.RoleAssistant, p.opts.Greeting))
}

func newMessage(role entity.Role, content string) entity.ChatMessage {
	return entity.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Sources:   []entity.RetrievedMatch{},
	}
}

// cloneMessage copies m so callers cannot reach the log's Sources.
func cloneMessage(m entity.ChatMessage) entity.ChatMessage {
	m.Sources = slices.Clone(m.Sources)
	return m
}

func errorText(kind entity.ErrorKind, err error) string {
	return fmt.Sprintf("Sorry, I encountered an error (%s): %v. %s", kind, err, hint(kind))
}

func hint(kind entity.ErrorKind) string {
	switch kind {
	case entity.KindIndexNotFound:
		return "Please check the index name and try again."
	case entity.KindRateLimited:
		return "Too many requests right now, please wait a moment and try again."
	case entity.KindServiceUnavailable:
		return "The service is temporarily unavailable, please try again later."
	case entity.KindMalformedResponse:
		return "The service returned an unexpected response, please try again."
	default:
		return "Please check your API keys and try again."
	}
}
