package handlers

import (
	"errors"
	"net/http"
	"time"

	"concierge/models"
	"concierge/services/chat"
	"concierge/services/session"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatHandler exposes the conversational pipeline over HTTP.
type ChatHandler struct {
	svc    chat.Service
	logger *zap.Logger
}

func NewChatHandler(svc chat.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

// HandleChat processes one conversational turn.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat request", err.Error())
		return
	}

	requestID := uuid.NewString()
	started := time.Now()

	resp, err := h.svc.HandleTurn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, session.ErrStateUnavailable) {
			h.logger.Error("session store unavailable",
				zap.String("requestId", requestID),
				zap.String("sessionId", req.SessionID),
				zap.Error(err))
			utils.JSONError(c, http.StatusServiceUnavailable, "Session storage unavailable", "Please retry shortly.")
			return
		}
		h.logger.Error("chat turn failed",
			zap.String("requestId", requestID),
			zap.String("sessionId", req.SessionID),
			zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Chat processing failed", err.Error())
		return
	}

	h.logger.Info("chat turn",
		zap.String("requestId", requestID),
		zap.String("sessionId", req.SessionID),
		zap.String("intent", resp.Debug.Intent),
		zap.Bool("guardTriggered", resp.Debug.GuardTriggered),
		zap.Bool("llmCalled", resp.Debug.LLMCalled),
		zap.Duration("latency", time.Since(started)))

	c.JSON(http.StatusOK, resp)
}

// ResetSession clears a session's dialogue state.
func (h *ChatHandler) ResetSession(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing session id", "")
		return
	}
	if err := h.svc.ResetSession(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Failed to reset session", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
