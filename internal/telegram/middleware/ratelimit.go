package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/docs-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	warningInterval = 30 * time.Second
	inactiveUserTTL = time.Hour
)

// Sender is the part of *tgbotapi.BotAPI the middlewares use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// userLimit tracks rate limit state for a single user
type userLimit struct {
	limiter       *rate.Limiter
	mu            sync.Mutex
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware limits requests per user with a token bucket.
// Users idle for an hour are forgotten.
type RateLimiterMiddleware struct {
	limits *cache.Cache
	mu     sync.Mutex
	every  rate.Limit
	burst  int
	logger *zap.Logger
	api    Sender
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api Sender,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limits: cache.New(inactiveUserTTL, 10*time.Minute),
		every:  rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:  burstSize,
		logger: logger,
		api:    api,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	if update.Message == nil || update.Message.From == nil {
		next(update)
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.userLimit(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	if limit.limiter.Allow() {
		limit.warningsSent = 0
		return true
	}

	now := time.Now()
	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now
		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

func (rl *RateLimiterMiddleware) userLimit(userID int64) *userLimit {
	key := userKey(userID)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limits.Get(key); ok {
		limit := v.(*userLimit)
		rl.limits.SetDefault(key, limit)
		return limit
	}

	limit := &userLimit{limiter: rate.NewLimiter(rl.every, rl.burst)}
	rl.limits.SetDefault(key, limit)
	return limit
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	text := render.MsgRateLimitHit
	switch warningCount {
	case 1:
		text = render.MsgSlowDown
	case 2:
		text = render.MsgRateLimited
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := rl.api.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
