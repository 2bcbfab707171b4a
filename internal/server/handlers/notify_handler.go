package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	notifysvc "github.com/kasetgo/kaset/internal/service/notify"
)

// NotifyHandler exposes Telegram linking and test notifications.
type NotifyHandler struct {
	svc    *notifysvc.Service
	logger *zap.Logger
}

// NewNotifyHandler constructs the HTTP handler adapter.
func NewNotifyHandler(svc *notifysvc.Service, logger *zap.Logger) *NotifyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyHandler{svc: svc, logger: logger}
}

type linkTelegramRequest struct {
	ChatID string `json:"chat_id" binding:"required"`
}

// LinkTelegram stores the caller's chat id for reminders.
func (h *NotifyHandler) LinkTelegram(c *gin.Context) {
	var req linkTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.LinkTelegram(c.Request.Context(), currentUserID(c), req.ChatID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "linked"})
}

// SendTest pushes a probe message to the linked chat.
func (h *NotifyHandler) SendTest(c *gin.Context) {
	if err := h.svc.SendTest(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
