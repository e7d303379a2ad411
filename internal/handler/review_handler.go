package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/internal/service"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/response"
)

// ReviewHandler exposes mentor review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
}

// NewReviewHandler creates a new handler.
func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

// Create godoc
// @Summary Review a booking
// @Description Rate a completed booking; updates the mentor's aggregate rating
// @Tags Reviews
// @Accept json
// @Produce json
// @Param payload body models.CreateReviewRequest true "Review payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}

	review, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, review)
}

// ListByMentor godoc
// @Summary Mentor reviews
// @Tags Reviews
// @Produce json
// @Param id path string true "Mentor ID"
// @Param limit query int false "Max reviews"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/reviews [get]
func (h *ReviewHandler) ListByMentor(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reviews, err := h.service.ListByMentor(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, reviews, nil)
}
