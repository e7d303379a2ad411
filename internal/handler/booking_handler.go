package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/response"
)

type bookingService interface {
	Create(ctx context.Context, studentID string, req models.CreateBookingRequest) (*models.Booking, error)
	Get(ctx context.Context, userID string, role models.UserRole, bookingID string) (*models.Booking, error)
	ListForStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.Booking, models.Pagination, error)
	ListForMentor(ctx context.Context, userID string, page, pageSize int) ([]models.Booking, models.Pagination, error)
	Cancel(ctx context.Context, userID string, role models.UserRole, bookingID string) error
	Complete(ctx context.Context, userID string, role models.UserRole, bookingID string) error
}

// BookingHandler exposes session booking endpoints.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler creates a new handler.
func NewBookingHandler(svc bookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// Create godoc
// @Summary Book a slot
// @Description Book one open slot on a mentor's schedule
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body models.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	booking, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, booking)
}

// Get godoc
// @Summary Booking detail
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	booking, err := h.service.Get(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, booking, nil)
}

// List godoc
// @Summary List own bookings
// @Description Students see their bookings, mentors the bookings against their slots
// @Tags Bookings
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, pageSize := paginationParams(c)

	var bookings []models.Booking
	var pagination models.Pagination
	var err error
	if claims.Role == models.RoleMentor {
		bookings, pagination, err = h.service.ListForMentor(c.Request.Context(), claims.UserID, page, pageSize)
	} else {
		bookings, pagination, err = h.service.ListForStudent(c.Request.Context(), claims.UserID, page, pageSize)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, bookings, &pagination)
}

// Cancel godoc
// @Summary Cancel booking
// @Description Cancel a confirmed booking and free its slot
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), claims.UserID, claims.Role, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Complete godoc
// @Summary Complete booking
// @Description Mark a confirmed booking as completed
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Complete(c.Request.Context(), claims.UserID, claims.Role, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
