package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/pkg/logger"
	"github.com/futig/docs-assistant/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatHandler maps every Telegram chat to one assistant session configured
// with the deployment defaults.
type ChatHandler struct {
	api      BotAPI
	sessions SessionUsecase
	defaults entity.Configuration
	sender   *MessageSender
	logger   *zap.Logger
}

func NewChatHandler(api BotAPI, sessions SessionUsecase, defaults entity.Configuration, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		api:      api,
		sessions: sessions,
		defaults: defaults,
		sender:   NewMessageSender(api, logger),
		logger:   logger,
	}
}

// SessionID names the assistant session that serves chatID.
func SessionID(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}

// HandleCommand dispatches a bot command without the leading slash.
func (h *ChatHandler) HandleCommand(ctx context.Context, command string, msg *Message) {
	ctx = logger.AddFields(ctx,
		zap.String("action", "command_"+command),
		zap.Int64("chat_id", msg.ChatID),
	)

	switch command {
	case "start":
		h.start(ctx, msg)
	case "reset":
		h.reset(ctx, msg)
	case "sources":
		h.sources(ctx, msg)
	case "export":
		h.export(ctx, msg)
	case "help":
		h.sender.Send(msg.ChatID, render.MsgHelp)
	default:
		h.sender.Send(msg.ChatID, render.MsgUnknown)
	}
}

// HandleText asks the text of msg as a question.
func (h *ChatHandler) HandleText(ctx context.Context, msg *Message) {
	id := SessionID(msg.ChatID)
	ctx = logger.AddFields(logger.WithSession(ctx, id),
		zap.String("action", "ask"),
		zap.Int64("chat_id", msg.ChatID),
	)

	session, _ := h.sessions.GetOrCreate(ctx, id)
	if session.State == entity.StateUnconfigured {
		if _, err := h.sessions.Configure(ctx, id, h.defaults); err != nil {
			ctxzap.Warn(ctx, "failed to configure chat session", zap.Error(err))
			h.sender.Send(msg.ChatID, render.ConfigurationError(err))
			return
		}
	}

	stopTyping := startTyping(ctx, h.api, msg.ChatID, h.logger)
	answer, _, err := h.sessions.Ask(ctx, id, msg.Text)
	stopTyping()

	switch {
	case err == nil:
		h.sender.Send(msg.ChatID, render.Answer(answer))
	case errors.Is(err, entity.ErrBusy):
		h.sender.Send(msg.ChatID, render.MsgBusy)
	case errors.Is(err, entity.ErrInvalidInput):
		h.sender.Send(msg.ChatID, render.MsgEmptyQuestion)
	case errors.Is(err, entity.ErrNotConfigured):
		h.sender.Send(msg.ChatID, render.ErrNotConfigured)
	case errors.Is(err, entity.ErrResultDiscarded):
		h.sender.Send(msg.ChatID, render.MsgDiscarded)
	default:
		ctxzap.Error(ctx, "ask failed", zap.Error(err))
		h.sender.Send(msg.ChatID, render.ErrGeneric)
	}
}

func (h *ChatHandler) start(ctx context.Context, msg *Message) {
	id := SessionID(msg.ChatID)
	h.sessions.GetOrCreate(ctx, id)

	if _, err := h.sessions.Configure(ctx, id, h.defaults); err != nil {
		ctxzap.Warn(ctx, "failed to configure chat session", zap.Error(err))
		h.sender.Send(msg.ChatID, render.ConfigurationError(err))
		return
	}

	h.sendGreeting(ctx, msg.ChatID, id, render.MsgReady)
}

func (h *ChatHandler) reset(ctx context.Context, msg *Message) {
	id := SessionID(msg.ChatID)
	h.sessions.GetOrCreate(ctx, id)

	if _, err := h.sessions.Reset(ctx, id); err != nil {
		ctxzap.Error(ctx, "failed to reset session", zap.Error(err))
		h.sender.Send(msg.ChatID, render.ErrGeneric)
		return
	}

	h.sendGreeting(ctx, msg.ChatID, id, render.MsgCleared)
}

func (h *ChatHandler) sources(ctx context.Context, msg *Message) {
	id := SessionID(msg.ChatID)
	h.sessions.GetOrCreate(ctx, id)

	sources, err := h.sessions.Sources(ctx, id)
	if err != nil {
		ctxzap.Error(ctx, "failed to load sources", zap.Error(err))
		h.sender.Send(msg.ChatID, render.ErrGeneric)
		return
	}

	h.sender.Send(msg.ChatID, render.Sources(sources))
}

func (h *ChatHandler) export(ctx context.Context, msg *Message) {
	id := SessionID(msg.ChatID)
	h.sessions.GetOrCreate(ctx, id)

	doc, err := h.sessions.Export(ctx, id, entity.FormatMarkdown)
	if err != nil {
		ctxzap.Error(ctx, "failed to export transcript", zap.Error(err))
		h.sender.Send(msg.ChatID, render.ErrGeneric)
		return
	}

	h.sender.SendDocument(msg.ChatID, doc.FileName, doc.Content)
}

// sendGreeting sends the latest assistant message of the log, which is the
// greeting right after configure or reset, or fallback when there is none.
func (h *ChatHandler) sendGreeting(ctx context.Context, chatID int64, id, fallback string) {
	messages, err := h.sessions.Messages(ctx, id)
	if err == nil && len(messages) > 0 {
		last := messages[len(messages)-1]
		if last.Role == entity.RoleAssistant && !last.IsError {
			h.sender.Send(chatID, last.Content)
			return
		}
	}
	h.sender.Send(chatID, fallback)
}
