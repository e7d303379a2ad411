package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/internal/schedule"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindActiveBySlot(ctx context.Context, slotID string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
}

type bookingSlotRepository interface {
	GetSlot(ctx context.Context, mentorID string, date calendar.Date, slotID string) (*models.TimeSlot, error)
	MarkBooked(ctx context.Context, slotID string, booked bool) error
}

// BookingService books, cancels and lists mentoring sessions. A slot can
// hold at most one confirmed booking at a time; cancelling frees it.
type BookingService struct {
	repo        bookingRepository
	slots       bookingSlotRepository
	mentors     availabilityMentorRepository
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService
	notifier    *NotificationService
	minLeadTime time.Duration
}

// NewBookingService constructs a BookingService.
func NewBookingService(repo bookingRepository, slots bookingSlotRepository, mentors availabilityMentorRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, notifier *NotificationService, minLeadTime time.Duration) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BookingService{
		repo:        repo,
		slots:       slots,
		mentors:     mentors,
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
		notifier:    notifier,
		minLeadTime: minLeadTime,
	}
}

// Create books one open slot for a student. The slot must exist, start far
// enough in the future and not already hold a confirmed booking.
func (s *BookingService) Create(ctx context.Context, studentID string, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	mentor, err := s.mentors.FindByID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	if mentor.UserID == studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "mentors cannot book their own slots")
	}

	slot, err := s.slots.GetSlot(ctx, mentor.ID, date, req.SlotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	if slot.Booked {
		return nil, appErrors.Clone(appErrors.ErrSlotTaken, "time slot is already booked")
	}

	if s.minLeadTime > 0 {
		if startsAt, err := slotStart(date, slot.StartTime); err == nil {
			if time.Until(startsAt) < s.minLeadTime {
				return nil, appErrors.Clone(appErrors.ErrValidation, "slot starts too soon to book")
			}
		}
	}

	if existing, err := s.repo.FindActiveBySlot(ctx, slot.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
	} else if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrSlotTaken, "time slot is already booked")
	}

	booking := &models.Booking{
		StudentID: studentID,
		MentorID:  mentor.ID,
		SlotID:    slot.ID,
		Date:      date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Status:    models.BookingConfirmed,
		Price:     mentor.HourlyRate,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}
	if err := s.slots.MarkBooked(ctx, slot.ID, true); err != nil {
		s.logger.Error("failed to mark slot booked", zap.String("slot_id", slot.ID), zap.Error(err))
	}
	s.metrics.RecordBooking(string(models.BookingConfirmed))
	s.notifier.BookingCreated(*booking)
	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("mentor_id", mentor.ID),
		zap.String("student_id", studentID))
	return booking, nil
}

// Cancel cancels a confirmed booking and frees its slot. Only the booking's
// student, the slot's mentor or an admin may cancel.
func (s *BookingService) Cancel(ctx context.Context, userID string, role models.UserRole, bookingID string) error {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, role, booking); err != nil {
		return err
	}
	if booking.Status != models.BookingConfirmed {
		return appErrors.Clone(appErrors.ErrConflict, "only confirmed bookings can be cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, models.BookingCancelled); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel booking")
	}
	if err := s.slots.MarkBooked(ctx, booking.SlotID, false); err != nil {
		s.logger.Error("failed to free slot after cancel", zap.String("slot_id", booking.SlotID), zap.Error(err))
	}
	s.metrics.RecordBooking(string(models.BookingCancelled))
	s.notifier.BookingCancelled(*booking)
	return nil
}

// Complete marks a confirmed booking as completed, which makes it
// reviewable. Only the mentor side or an admin may complete.
func (s *BookingService) Complete(ctx context.Context, userID string, role models.UserRole, bookingID string) error {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		mentor, err := s.mentors.FindByUserID(ctx, userID)
		if err != nil || mentor.ID != booking.MentorID {
			return appErrors.Clone(appErrors.ErrForbidden, "only the mentor can complete a booking")
		}
	}
	if booking.Status != models.BookingConfirmed {
		return appErrors.Clone(appErrors.ErrConflict, "only confirmed bookings can be completed")
	}
	if err := s.repo.UpdateStatus(ctx, booking.ID, models.BookingCompleted); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete booking")
	}
	s.metrics.RecordBooking(string(models.BookingCompleted))
	return nil
}

// Get returns one booking visible to the caller.
func (s *BookingService) Get(ctx context.Context, userID string, role models.UserRole, bookingID string) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, role, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListForStudent returns a student's bookings, upcoming first.
func (s *BookingService) ListForStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.Booking, models.Pagination, error) {
	return s.list(ctx, models.BookingFilter{StudentID: studentID, Page: page, PageSize: pageSize})
}

// ListForMentor returns the bookings held against a mentor's slots.
func (s *BookingService) ListForMentor(ctx context.Context, userID string, page, pageSize int) ([]models.Booking, models.Pagination, error) {
	mentor, err := s.mentors.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.Pagination{}, appErrors.Clone(appErrors.ErrNotFound, "no mentor profile for user")
		}
		return nil, models.Pagination{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	return s.list(ctx, models.BookingFilter{MentorID: mentor.ID, Page: page, PageSize: pageSize})
}

func (s *BookingService) list(ctx context.Context, filter models.BookingFilter) ([]models.Booking, models.Pagination, error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return bookings, models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

func (s *BookingService) loadBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	return booking, nil
}

func (s *BookingService) authorize(ctx context.Context, userID string, role models.UserRole, booking *models.Booking) error {
	if role == models.RoleAdmin || booking.StudentID == userID {
		return nil
	}
	mentor, err := s.mentors.FindByUserID(ctx, userID)
	if err == nil && mentor.ID == booking.MentorID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "booking does not belong to user")
}

func slotStart(date calendar.Date, label string) (time.Time, error) {
	minutes, err := schedule.ParseClock(label)
	if err != nil {
		return time.Time{}, err
	}
	return date.Time().Add(time.Duration(minutes) * time.Minute), nil
}
