package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/internal/service"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/response"
)

type mentorCatalogService interface {
	Browse(ctx context.Context, criteria models.FilterCriteria, page, pageSize int) (*service.BrowseResult, error)
	Get(ctx context.Context, id string) (*models.Mentor, error)
	GetByUser(ctx context.Context, userID string) (*models.Mentor, error)
	UpsertProfile(ctx context.Context, userID string, req models.UpsertMentorRequest) (*models.Mentor, error)
}

type favoriteChecker interface {
	IsFavorite(ctx context.Context, studentID, mentorID string) (bool, error)
}

type reviewLister interface {
	ListByMentor(ctx context.Context, mentorID string, limit int) ([]models.Review, error)
}

// MentorHandler serves the public mentor catalog and profile management.
type MentorHandler struct {
	service   mentorCatalogService
	favorites favoriteChecker
	reviews   reviewLister
}

// NewMentorHandler creates a new handler.
func NewMentorHandler(svc mentorCatalogService, favorites favoriteChecker, reviews reviewLister) *MentorHandler {
	return &MentorHandler{service: svc, favorites: favorites, reviews: reviews}
}

// Browse godoc
// @Summary Browse mentors
// @Description Filter, sort and page through the mentor catalog
// @Tags Mentors
// @Produce json
// @Param search query string false "Name or skill substring"
// @Param subject query string false "Subject ID"
// @Param price_range query string false "Price band (0-20, 20-40, 40-60, 60+, any)"
// @Param available_only query bool false "Only mentors open for booking"
// @Param sort query string false "relevance | rating | price_low | price_high"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) Browse(c *gin.Context) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter query"))
		return
	}
	page, pageSize := paginationParams(c)

	result, err := h.service.Browse(c.Request.Context(), criteria, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result.Mentors, &result.Pagination)
}

// Get godoc
// @Summary Mentor detail
// @Description Return one mentor listing with recent reviews
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	mentor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	detail := gin.H{"mentor": mentor}
	if reviews, err := h.reviews.ListByMentor(c.Request.Context(), mentor.ID, 10); err == nil {
		detail["reviews"] = reviews
	}
	if claims := claimsFromContext(c); claims != nil {
		if saved, err := h.favorites.IsFavorite(c.Request.Context(), claims.UserID, mentor.ID); err == nil {
			detail["is_favorite"] = saved
		}
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// UpsertProfile godoc
// @Summary Create or update mentor profile
// @Description Create the caller's mentor listing on first use, update it afterwards
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body models.UpsertMentorRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile/mentor [put]
func (h *MentorHandler) UpsertProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpsertMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	mentor, err := h.service.UpsertProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, mentor, nil)
}

// MyProfile godoc
// @Summary Own mentor profile
// @Description Return the caller's mentor listing
// @Tags Mentors
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profile/mentor [get]
func (h *MentorHandler) MyProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	mentor, err := h.service.GetByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, mentor, nil)
}

func paginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
