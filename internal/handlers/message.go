package handlers

import (
	"net/http"
	"strings"

	"campusconnect/internal/db"
	"campusconnect/internal/logger"
	"campusconnect/internal/models"
	"campusconnect/internal/moderation"
	"campusconnect/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxMessageLength = 4000

type MessageHandler struct {
	moderation *services.ModerationService
	publisher  services.MessagePublisher
}

func NewMessageHandler(mod *services.ModerationService, pub services.MessagePublisher) *MessageHandler {
	if pub == nil {
		pub = services.NopPublisher{}
	}
	return &MessageHandler{moderation: mod, publisher: pub}
}

type sendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// Send stores a direct message after the lightweight check and pushes it to
// the recipient's live channel.
func (h *MessageHandler) Send(c *gin.Context) {
	user := currentUser(c)
	if !checkCanPublish(c, user) {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "recipient_id and content are required")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" || len(content) > maxMessageLength {
		respondError(c, http.StatusBadRequest, "message must be between 1 and 4000 characters")
		return
	}
	if req.RecipientID == user.ID {
		respondError(c, http.StatusBadRequest, "cannot message yourself")
		return
	}

	var recipient models.User
	if err := db.DB.First(&recipient, req.RecipientID).Error; err != nil {
		respondError(c, http.StatusNotFound, "recipient not found")
		return
	}

	ctx := c.Request.Context()
	if err := h.moderation.ScreenLight(ctx, user.ID, content, moderation.ContentMessage); err != nil {
		respondModerationError(c, err)
		return
	}

	msg := models.Message{
		SenderID:    user.ID,
		RecipientID: recipient.ID,
		Content:     content,
	}
	if err := db.DB.Create(&msg).Error; err != nil {
		logger.Log.Error("Failed to store message", zap.Uint("sender_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to send message")
		return
	}

	if err := h.publisher.PublishMessage(ctx, &msg); err != nil {
		logger.Log.Warn("Failed to publish message", zap.String("message_id", msg.ID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, msg)
}
