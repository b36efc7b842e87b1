package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/pkg/logger"
	"github.com/futig/docs-assistant/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxBodySize caps request bodies; questions and configurations are small.
const maxBodySize = 64 << 10

type Handler struct {
	usecase SessionUsecase
}

func NewHandler(usecase SessionUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	session, err := h.usecase.CreateSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, session)
}

// GetSession handles GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSession")

	session, err := h.usecase.Status(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// DeleteSession handles DELETE /sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "DeleteSession")

	if err := h.usecase.Delete(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// Configure handles POST /sessions/{id}/configure
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Configure")

	var req entity.ConfigureRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	session, err := h.usecase.Configure(ctx, sessionID, req.ToConfiguration())
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session configured", zap.String("index", session.IndexName), zap.Int("top_k", session.TopK))
	response.Success(w, session)
}

// Ask handles POST /sessions/{id}/ask
//
// A failed query still answers 200: the returned message carries is_error
// and error_kind.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Ask")

	var req entity.AskRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	msg, state, err := h.usecase.Ask(ctx, sessionID, req.Question)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.AskResponse{Message: *msg, State: state})
}

// GetMessages handles GET /sessions/{id}/messages
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetMessages")

	messages, err := h.usecase.Messages(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if messages == nil {
		messages = []entity.ChatMessage{}
	}

	response.Success(w, entity.MessagesResponse{Messages: messages})
}

// GetSources handles GET /sessions/{id}/sources
func (h *Handler) GetSources(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSources")

	sources, err := h.usecase.Sources(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if sources == nil {
		sources = []entity.RetrievedMatch{}
	}

	response.Success(w, entity.SourcesResponse{Sources: sources})
}

// Reset handles POST /sessions/{id}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Reset")

	session, err := h.usecase.Reset(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// Export handles GET /sessions/{id}/export?format=markdown|docx|pdf
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Export")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}
	ctx = logger.AddFields(ctx, zap.String("format", formatParam))

	doc, err := h.usecase.Export(ctx, sessionID, entity.ResultFormat(formatParam))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Attachment(w, doc.FileName, doc.ContentType, doc.Content)
}

func (h *Handler) sessionContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	return logger.WithAction(logger.WithSession(r.Context(), sessionID), action), sessionID
}

func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", "", err)
		return false
	}
	return true
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, kind entity.ErrorKind, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Info(ctx, message, zap.Error(err))
	}
	response.JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Kind:    kind,
		Message: message + ": " + err.Error(),
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := entity.KindOf(err)

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "session not found", "", err)
	case errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter", "", err)
	case kind == entity.KindInvalidConfiguration:
		h.respondError(ctx, w, http.StatusBadRequest, "invalid configuration", kind, err)
	case kind == entity.KindInvalidInput:
		h.respondError(ctx, w, http.StatusBadRequest, "invalid question", kind, err)
	case kind == entity.KindNotConfigured, kind == entity.KindBusy:
		h.respondError(ctx, w, http.StatusConflict, "invalid session state", kind, err)
	case errors.Is(err, entity.ErrResultDiscarded):
		h.respondError(ctx, w, http.StatusConflict, "session was reset during the query", "", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", kind, err)
	}
}
