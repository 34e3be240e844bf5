package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booking-assistant/internal/application/port/input"
	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/domain/entity"
	"booking-assistant/internal/session"
)

// Handler exposes the message processor over HTTP. Each request carries a
// session id; an absent id starts a new session. Turns for the same
// session are serialized; only independent sessions run concurrently.
type Handler struct {
	processor input.MessageProcessor
	sessions  session.Store
	turns     *turnLocks
	logger    output.LoggerPort
}

func NewHandler(processor input.MessageProcessor, sessions session.Store, logger output.LoggerPort) *Handler {
	return &Handler{
		processor: processor,
		sessions:  sessions,
		turns:     newTurnLocks(),
		logger:    logger,
	}
}

func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/healthz", h.health)

	api := r.Group("/api")
	api.POST("/chat", h.chat)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Reset     bool   `json:"reset"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Stage     string `json:"stage"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// One in-flight turn per session. Load, process and save run under
	// the session's lock so concurrent requests cannot interleave.
	lock := h.turns.acquire(sessionID)
	defer h.turns.release(sessionID, lock)

	state, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			h.logger.Error("Session load failed", "sessionId", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
			return
		}
		state = entity.NewConversationState()
	}

	newState, reply, err := h.processor.ProcessMessage(ctx, state, req.Message, req.Reset)
	if err != nil {
		// Invariant violation means the stored state is unusable; drop it.
		h.logger.Error("Message processing failed", "sessionId", sessionID, "error", err)
		_ = h.sessions.Delete(ctx, sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conversation state corrupted, session discarded"})
		return
	}

	if err := h.sessions.Put(ctx, sessionID, newState); err != nil {
		h.logger.Error("Session save failed", "sessionId", sessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Stage:     string(newState.Stage),
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
