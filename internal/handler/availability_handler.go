package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/response"
)

type availabilityService interface {
	MonthView(ctx context.Context, mentorID string, year int, month time.Month) ([]models.MonthDay, error)
	DaySlots(ctx context.Context, mentorID, date string) ([]models.TimeSlot, error)
	AddSlot(ctx context.Context, userID string, req models.AddSlotRequest) (*models.TimeSlot, error)
	RemoveSlot(ctx context.Context, userID, date, slotID string) error
	GenerateWeekly(ctx context.Context, userID string, req models.GenerateWeeklyRequest) ([]models.AvailabilityDay, error)
}

// AvailabilityHandler exposes the booking calendar and the mentor-side slot
// management endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler creates a new handler.
func NewAvailabilityHandler(svc availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// MonthView godoc
// @Summary Availability calendar
// @Description Month grid of complete weeks, each day annotated with slot availability
// @Tags Availability
// @Produce json
// @Param id path string true "Mentor ID"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{id}/calendar [get]
func (h *AvailabilityHandler) MonthView(c *gin.Context) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid year"))
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid month"))
		return
	}

	view, err := h.service.MonthView(c.Request.Context(), c.Param("id"), year, time.Month(month))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view, nil)
}

// DaySlots godoc
// @Summary Slots for one day
// @Description List a mentor's slots for a specific date
// @Tags Availability
// @Produce json
// @Param id path string true "Mentor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /mentors/{id}/slots [get]
func (h *AvailabilityHandler) DaySlots(c *gin.Context) {
	slots, err := h.service.DaySlots(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// AddSlot godoc
// @Summary Add availability slot
// @Description Open a new time slot on the caller's schedule
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body models.AddSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/slots [post]
func (h *AvailabilityHandler) AddSlot(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	slot, err := h.service.AddSlot(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, slot)
}

// RemoveSlot godoc
// @Summary Remove availability slot
// @Description Delete one slot; removing an unknown slot is a no-op
// @Tags Availability
// @Produce json
// @Param slotId path string true "Slot ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/slots/{slotId} [delete]
func (h *AvailabilityHandler) RemoveSlot(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.RemoveSlot(c.Request.Context(), claims.UserID, c.Query("date"), c.Param("slotId")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GenerateWeekly godoc
// @Summary Apply weekly template
// @Description Expand a weekly schedule template over the next seven days
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body models.GenerateWeeklyRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/weekly [post]
func (h *AvailabilityHandler) GenerateWeekly(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.GenerateWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}

	days, err := h.service.GenerateWeekly(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, days, nil)
}
