package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorloop-api/internal/service"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/response"
)

// FavoriteHandler exposes saved-mentor endpoints.
type FavoriteHandler struct {
	service *service.FavoriteService
}

// NewFavoriteHandler creates a new handler.
func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

// Add godoc
// @Summary Save a mentor
// @Description Add a mentor to the caller's favorites; saving twice is a no-op
// @Tags Favorites
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /favorites/{id} [put]
func (h *FavoriteHandler) Add(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Add(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Remove godoc
// @Summary Unsave a mentor
// @Tags Favorites
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 204 {object} response.Envelope
// @Router /favorites/{id} [delete]
func (h *FavoriteHandler) Remove(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Remove(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// List godoc
// @Summary Saved mentors
// @Tags Favorites
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	mentors, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, mentors, nil)
}
