package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/middleware"
	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type availabilityServiceMock struct {
	monthResp  []models.MonthDay
	monthErr   error
	slotsResp  []models.TimeSlot
	addResp    *models.TimeSlot
	addErr     error
	weeklyResp []models.AvailabilityDay
	weeklyErr  error

	monthCalled  bool
	addCalled    bool
	removeCalled bool
	lastYear     int
	lastMonth    time.Month
	lastAddReq   models.AddSlotRequest
	lastSlotID   string
}

func (m *availabilityServiceMock) MonthView(ctx context.Context, mentorID string, year int, month time.Month) ([]models.MonthDay, error) {
	m.monthCalled = true
	m.lastYear = year
	m.lastMonth = month
	return m.monthResp, m.monthErr
}

func (m *availabilityServiceMock) DaySlots(ctx context.Context, mentorID, date string) ([]models.TimeSlot, error) {
	return m.slotsResp, nil
}

func (m *availabilityServiceMock) AddSlot(ctx context.Context, userID string, req models.AddSlotRequest) (*models.TimeSlot, error) {
	m.addCalled = true
	m.lastAddReq = req
	return m.addResp, m.addErr
}

func (m *availabilityServiceMock) RemoveSlot(ctx context.Context, userID, date, slotID string) error {
	m.removeCalled = true
	m.lastSlotID = slotID
	return nil
}

func (m *availabilityServiceMock) GenerateWeekly(ctx context.Context, userID string, req models.GenerateWeeklyRequest) ([]models.AvailabilityDay, error) {
	return m.weeklyResp, m.weeklyErr
}

func mentorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Role: models.RoleMentor}
}

func TestAvailabilityHandlerMonthView(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &availabilityServiceMock{
		monthResp: []models.MonthDay{{DayCell: calendar.DayCell{Date: calendar.NewDate(2026, time.September, 7), InCurrentMonth: true}, HasAvailability: true, SlotCount: 1}},
	}
	h := NewAvailabilityHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/mentors/m1/calendar?year=2026&month=9", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "m1"}}

	h.MonthView(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.monthCalled)
	assert.Equal(t, 2026, mockSvc.lastYear)
	assert.Equal(t, time.September, mockSvc.lastMonth)
}

func TestAvailabilityHandlerMonthViewRejectsBadMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAvailabilityHandler(&availabilityServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/mentors/m1/calendar?year=2026&month=13", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "m1"}}

	h.MonthView(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerAddSlot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &availabilityServiceMock{
		addResp: &models.TimeSlot{ID: "s1", StartTime: "10:00 AM", EndTime: "11:00 AM"},
	}
	h := NewAvailabilityHandler(mockSvc)

	body, _ := json.Marshal(models.AddSlotRequest{Date: "2026-09-07", StartTime: "10:00 AM", EndTime: "11:00 AM"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/availability/slots", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, mentorClaims())

	h.AddSlot(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.addCalled)
	assert.Equal(t, "2026-09-07", mockSvc.lastAddReq.Date)
}

func TestAvailabilityHandlerAddSlotServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &availabilityServiceMock{
		addErr: appErrors.Clone(appErrors.ErrValidation, "invalid time range"),
	}
	h := NewAvailabilityHandler(mockSvc)

	body, _ := json.Marshal(models.AddSlotRequest{Date: "2026-09-07", StartTime: "3:00 PM", EndTime: "2:00 PM"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/availability/slots", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, mentorClaims())

	h.AddSlot(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerAddSlotRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAvailabilityHandler(&availabilityServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/availability/slots", bytes.NewBufferString(`{}`))
	c.Request = req

	h.AddSlot(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAvailabilityHandlerRemoveSlot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &availabilityServiceMock{}
	h := NewAvailabilityHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/availability/slots/s1?date=2026-09-07", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "slotId", Value: "s1"}}
	c.Set(middleware.ContextUserKey, mentorClaims())

	h.RemoveSlot(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.removeCalled)
	assert.Equal(t, "s1", mockSvc.lastSlotID)
}
