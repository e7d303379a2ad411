package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/internal/service"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/response"
)

// ChatHandler exposes direct-message endpoints.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler creates a new handler.
func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// Send godoc
// @Summary Send message
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body models.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /messages [post]
func (h *ChatHandler) Send(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}

	message, err := h.service.Send(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, message)
}

// Conversation godoc
// @Summary Conversation history
// @Description Messages between the caller and another user, oldest first
// @Tags Chat
// @Produce json
// @Param userId path string true "Other user ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /messages/{userId} [get]
func (h *ChatHandler) Conversation(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, pageSize := paginationParams(c)

	messages, pagination, err := h.service.Conversation(c.Request.Context(), claims.UserID, c.Param("userId"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, messages, &pagination)
}
