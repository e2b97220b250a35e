package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"course-service/internal/middleware"
	"course-service/internal/models"
	"course-service/internal/observability"
	"course-service/internal/repositories"
	"course-service/internal/ws"
)

// ChatHandler serves chat history and the HTTP send path.
type ChatHandler struct {
	messageRepo repositories.MessageRepository
	hub         *ws.Hub
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(messageRepo repositories.MessageRepository, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{messageRepo: messageRepo, hub: hub}
}

// GetMessages returns the conversation between the caller and user_id, oldest
// first. Messages addressed to the caller are marked read before they are returned.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	otherID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	userID := c.GetInt(middleware.ContextUserID)
	msgs, err := h.messageRepo.ReadConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		respondRepoError(c, err, "load messages")
		return
	}

	c.JSON(http.StatusOK, lo.Map(msgs, func(m models.Message, _ int) models.HistoryEntry {
		return m.HistoryEntry()
	}))
}

// UnreadCount returns how many messages wait for the caller.
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageRepo.CountUnread(c.Request.Context(), c.GetInt(middleware.ContextUserID))
	if err != nil {
		respondRepoError(c, err, "count unread messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// PostMessage stores a message from the caller and pushes it to the recipient
// if they are connected.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Content *string `json:"content" binding:"required"`
		ToUser  int    `json:"to_user" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID := c.GetInt(middleware.ContextUserID)
	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), userID, req.ToUser, *req.Content)
	if err != nil {
		observability.IncChatMessage(observability.OutcomeStoreFailed)
		respondRepoError(c, err, "store message")
		return
	}

	delivered := false
	if h.hub != nil {
		var derr error
		delivered, derr = h.hub.Deliver(c.Request.Context(), req.ToUser, msg.DeliveryFrame())
		if derr != nil {
			observability.LoggerFromContext(c.Request.Context()).Warn("live delivery failed", zap.Int("message_id", msg.ID), zap.Error(derr))
		}
	}
	if delivered {
		observability.IncChatMessage(observability.OutcomeDelivered)
	} else {
		observability.IncChatMessage(observability.OutcomeStored)
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg.HistoryEntry(), "delivered": delivered})
}
