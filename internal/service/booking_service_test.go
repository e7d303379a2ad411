package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type bookingRepoStub struct {
	bookings map[string]*models.Booking
	bySlot   map[string]*models.Booking
}

func newBookingRepoStub() *bookingRepoStub {
	return &bookingRepoStub{
		bookings: make(map[string]*models.Booking),
		bySlot:   make(map[string]*models.Booking),
	}
}

func (s *bookingRepoStub) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = "b" + booking.SlotID
	}
	copied := *booking
	s.bookings[booking.ID] = &copied
	s.bySlot[booking.SlotID] = &copied
	return nil
}

func (s *bookingRepoStub) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if booking, ok := s.bookings[id]; ok {
		return booking, nil
	}
	return nil, sql.ErrNoRows
}

func (s *bookingRepoStub) FindActiveBySlot(ctx context.Context, slotID string) (*models.Booking, error) {
	if booking, ok := s.bySlot[slotID]; ok && booking.Status == models.BookingConfirmed {
		return booking, nil
	}
	return nil, nil
}

func (s *bookingRepoStub) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	var out []models.Booking
	for _, booking := range s.bookings {
		if filter.StudentID != "" && booking.StudentID != filter.StudentID {
			continue
		}
		if filter.MentorID != "" && booking.MentorID != filter.MentorID {
			continue
		}
		out = append(out, *booking)
	}
	return out, len(out), nil
}

func (s *bookingRepoStub) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	booking, ok := s.bookings[id]
	if !ok {
		return sql.ErrNoRows
	}
	booking.Status = status
	return nil
}

type slotRepoStub struct {
	slots map[string]*models.TimeSlot
}

func (s *slotRepoStub) GetSlot(ctx context.Context, mentorID string, date calendar.Date, slotID string) (*models.TimeSlot, error) {
	if slot, ok := s.slots[slotID]; ok {
		return slot, nil
	}
	return nil, sql.ErrNoRows
}

func (s *slotRepoStub) MarkBooked(ctx context.Context, slotID string, booked bool) error {
	if slot, ok := s.slots[slotID]; ok {
		slot.Booked = booked
	}
	return nil
}

func newBookingFixture(minLead time.Duration) (*BookingService, *bookingRepoStub, *slotRepoStub) {
	bookings := newBookingRepoStub()
	slots := &slotRepoStub{slots: map[string]*models.TimeSlot{
		"slot-1": {ID: "slot-1", StartTime: "10:00 AM", EndTime: "11:00 AM"},
	}}
	svc := NewBookingService(bookings, slots, testMentorRepo(), nil, nil, nil, nil, minLead)
	return svc, bookings, slots
}

func TestBookingCreateMarksSlotBooked(t *testing.T) {
	svc, _, slots := newBookingFixture(0)

	booking, err := svc.Create(context.Background(), "stu-1", models.CreateBookingRequest{
		MentorID: "m1",
		Date:     "2026-09-07",
		SlotID:   "slot-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, 30.0, booking.Price)
	assert.Equal(t, "10:00 AM", booking.StartTime)
	assert.True(t, slots.slots["slot-1"].Booked)
}

func TestBookingCreateRejectsTakenSlot(t *testing.T) {
	svc, _, _ := newBookingFixture(0)

	_, err := svc.Create(context.Background(), "stu-1", models.CreateBookingRequest{
		MentorID: "m1", Date: "2026-09-07", SlotID: "slot-1",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "stu-2", models.CreateBookingRequest{
		MentorID: "m1", Date: "2026-09-07", SlotID: "slot-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotTaken.Code, appErrors.FromError(err).Code)
}

func TestBookingCreateRejectsUnknownSlot(t *testing.T) {
	svc, _, _ := newBookingFixture(0)

	_, err := svc.Create(context.Background(), "stu-1", models.CreateBookingRequest{
		MentorID: "m1", Date: "2026-09-07", SlotID: "ghost",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBookingCreateEnforcesLeadTime(t *testing.T) {
	svc, _, _ := newBookingFixture(time.Hour)

	// A date in the past is always inside the lead window.
	_, err := svc.Create(context.Background(), "stu-1", models.CreateBookingRequest{
		MentorID: "m1", Date: "2020-01-06", SlotID: "slot-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookingCreateRejectsOwnSlot(t *testing.T) {
	svc, _, _ := newBookingFixture(0)

	_, err := svc.Create(context.Background(), "u1", models.CreateBookingRequest{
		MentorID: "m1", Date: "2026-09-07", SlotID: "slot-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestBookingCancelFreesSlot(t *testing.T) {
	svc, _, slots := newBookingFixture(0)

	booking, err := svc.Create(context.Background(), "stu-1", models.CreateBookingRequest{
		MentorID: "m1", Date: "2026-09-07", SlotID: "slot-1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), "stu-1", models.RoleStudent, booking.ID))
	assert.False(t, slots.slots["slot-1"].Booked)

	err = svc.Cancel(context.Background(), "stu-1", models.RoleStudent, booking.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestBookingCancelForbiddenForStranger(t *testing.T) {
	svc, _, _ := newBookingFixture(0)

	booking, err := svc.Create(context.Background(), "stu-1", models.CreateBookingRequest{
		MentorID: "m1", Date: "2026-09-07", SlotID: "slot-1",
	})
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), "stu-2", models.RoleStudent, booking.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestBookingCompleteByMentor(t *testing.T) {
	svc, bookings, _ := newBookingFixture(0)

	booking, err := svc.Create(context.Background(), "stu-1", models.CreateBookingRequest{
		MentorID: "m1", Date: "2026-09-07", SlotID: "slot-1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Complete(context.Background(), "u1", models.RoleMentor, booking.ID))
	assert.Equal(t, models.BookingCompleted, bookings.bookings[booking.ID].Status)
}
