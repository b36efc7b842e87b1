package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/docs-assistant/internal/entity"
	pkgRetry "github.com/futig/docs-assistant/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const defaultGreeting = "👋 Hello! I'm your PDF Knowledge Assistant. I can help you find information from your uploaded documents. What would you like to know?"

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Default pipeline configuration, used by the telegram bot and the CLI.
	// The HTTP API receives its configuration per session.
	Assistant AssistantConfig

	// External service configurations
	EmbeddingCfg   EmbeddingConfig   `envPrefix:"EMBEDDING_"`
	VectorIndexCfg VectorIndexConfig `envPrefix:"VECTOR_"`
	LLMCfg         LLMConfig         `envPrefix:"LLM_"`

	// Caller-level retry of transient query failures
	AskRetry pkgRetry.RetryConfig `envPrefix:"ASK_RETRY_"`

	SessionCfg  SessionConfig  `envPrefix:"SESSION_"`
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type AssistantConfig struct {
	GenerativeAPIKey string        `env:"GENERATIVE_API_KEY"`
	VectorAPIKey     string        `env:"VECTOR_API_KEY"`
	IndexName        string        `env:"INDEX_NAME" envDefault:"stroke"`
	TopK             int           `env:"TOP_K" envDefault:"5"`
	MaxTopK          int           `env:"MAX_TOP_K" envDefault:"20"`
	Greeting         string        `env:"GREETING"`
	StageTimeout     time.Duration `env:"STAGE_TIMEOUT" envDefault:"30s"`
}

// Configuration returns the default pipeline configuration.
func (a AssistantConfig) Configuration() entity.Configuration {
	return entity.Configuration{
		GenerativeAPIKey: a.GenerativeAPIKey,
		VectorAPIKey:     a.VectorAPIKey,
		IndexName:        a.IndexName,
		TopK:             a.TopK,
	}
}

type EmbeddingConfig struct {
	HTTPClientConfig
	Model     string `env:"MODEL" envDefault:"text-embedding-004"`
	Dimension int    `env:"DIMENSION" envDefault:"768"`
	BaseURL   string `env:"BASE_URL"`
}

type VectorIndexConfig struct {
	HTTPClientConfig
	ControllerURL string        `env:"CONTROLLER_URL" envDefault:"https://api.pinecone.io"`
	APIVersion    string        `env:"API_VERSION" envDefault:"2024-07"`
	Namespace     string        `env:"NAMESPACE"`
	HostCacheTTL  time.Duration `env:"HOST_CACHE_TTL" envDefault:"10m"`
}

type LLMConfig struct {
	HTTPClientConfig
	BaseURL         string  `env:"BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	Model           string  `env:"MODEL" envDefault:"gemini-1.5-flash-latest"`
	Temperature     float64 `env:"TEMPERATURE" envDefault:"0.7"`
	MaxOutputTokens int     `env:"MAX_OUTPUT_TOKENS" envDefault:"2048"`
	TopP            float64 `env:"TOP_P" envDefault:"0.8"`
	TopK            int     `env:"TOP_K" envDefault:"40"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
}

type SessionConfig struct {
	IdleTTL         time.Duration `env:"IDLE_TTL" envDefault:"2h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

// LoadConfig parses the -env flag, loads the matching .env file and the
// process environment.
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load reads configuration for the named environment without touching flags.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	if cfg.Assistant.Greeting == "" {
		cfg.Assistant.Greeting = defaultGreeting
	}
	if cfg.Assistant.Greeting == "-" {
		cfg.Assistant.Greeting = ""
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.Assistant.MaxTopK < 1 || cfg.Assistant.MaxTopK > 1000 {
		errors = append(errors, fmt.Sprintf("MAX_TOP_K must be between 1 and 1000, got %d", cfg.Assistant.MaxTopK))
	}

	if cfg.Assistant.TopK < 1 || cfg.Assistant.TopK > cfg.Assistant.MaxTopK {
		errors = append(errors, fmt.Sprintf("TOP_K must be between 1 and MAX_TOP_K(%d), got %d", cfg.Assistant.MaxTopK, cfg.Assistant.TopK))
	}

	if cfg.Assistant.StageTimeout <= 0 {
		errors = append(errors, "STAGE_TIMEOUT must be positive")
	}

	if cfg.EmbeddingCfg.Dimension < 1 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_DIMENSION must be positive, got %d", cfg.EmbeddingCfg.Dimension))
	}

	if cfg.LLMCfg.Temperature < 0 || cfg.LLMCfg.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("LLM_TEMPERATURE must be between 0 and 2, got %v", cfg.LLMCfg.Temperature))
	}

	if cfg.LLMCfg.TopP <= 0 || cfg.LLMCfg.TopP > 1 {
		errors = append(errors, fmt.Sprintf("LLM_TOP_P must be in (0, 1], got %v", cfg.LLMCfg.TopP))
	}

	if cfg.LLMCfg.MaxOutputTokens < 1 {
		errors = append(errors, fmt.Sprintf("LLM_MAX_OUTPUT_TOKENS must be positive, got %d", cfg.LLMCfg.MaxOutputTokens))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
