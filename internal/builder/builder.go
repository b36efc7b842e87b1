package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/docs-assistant/internal/api"
	sessionapi "github.com/futig/docs-assistant/internal/api/session"
	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/pkg/formatter"
	"github.com/futig/docs-assistant/internal/pkg/validator"
	"github.com/futig/docs-assistant/internal/telegram"
	"github.com/futig/docs-assistant/internal/usecase/pipeline"
	"github.com/futig/docs-assistant/internal/usecase/session"
	"go.uber.org/zap"
)

// requestMargin covers decoding, logging and the pauses between stages.
const requestMargin = 5 * time.Second

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	sessionUC := newSessionUsecase(cfg, logger)
	logger.Info("Use cases initialized")

	sessionHandler := sessionapi.NewHandler(sessionUC)
	logger.Info("API handlers initialized")

	requestTimeout := queryTimeout(cfg)
	router := api.SetupRouter(sessionHandler, requestTimeout, logger)
	logger.Info("HTTP router configured", zap.Duration("request_timeout", requestTimeout))

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + requestMargin,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	sessionUC := newSessionUsecase(cfg, logger)
	logger.Info("Use cases initialized")

	bot, err := telegram.NewBot(&cfg.TelegramCfg, sessionUC, cfg.Assistant.Configuration(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// BuildCLI loads configuration for the named environment and returns a
// logger suited for terminal use.
func BuildCLI(environment string, verbose bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := "error"
	if verbose {
		level = "debug"
	}

	logger, err := setupLogger(level)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	return cfg, logger, nil
}

// NewPipeline creates a single unconfigured pipeline.
func NewPipeline(cfg *config.Config, logger *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(
		newClientFactory(cfg, logger),
		validator.New(cfg.Assistant.MaxTopK),
		pipeline.Options{
			Greeting:     cfg.Assistant.Greeting,
			StageTimeout: cfg.Assistant.StageTimeout,
		},
		logger,
	)
}

func newSessionUsecase(cfg *config.Config, logger *zap.Logger) *session.SessionUsecase {
	factory := newClientFactory(cfg, logger)
	v := validator.New(cfg.Assistant.MaxTopK)
	opts := pipeline.Options{
		Greeting:     cfg.Assistant.Greeting,
		StageTimeout: cfg.Assistant.StageTimeout,
	}

	return session.NewUsecase(
		cfg.SessionCfg,
		cfg.AskRetry,
		func() session.Pipeline {
			return pipeline.New(factory, v, opts, logger)
		},
		formatter.NewFactory(),
		logger,
	)
}

// queryTimeout bounds one HTTP request: three stages per attempt plus the
// largest back-off between attempts.
func queryTimeout(cfg *config.Config) time.Duration {
	attempts := max(cfg.AskRetry.Attempts, 1)
	perAttempt := 3 * cfg.Assistant.StageTimeout
	backoff := time.Duration(attempts-1) * cfg.AskRetry.MaxDelay
	return time.Duration(attempts)*perAttempt + backoff + requestMargin
}
