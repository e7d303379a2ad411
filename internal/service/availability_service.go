package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/internal/schedule"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type availabilityRepository interface {
	ListDays(ctx context.Context, mentorID string, from, to calendar.Date) ([]models.AvailabilityDay, error)
	ListSlots(ctx context.Context, mentorID string, date calendar.Date) ([]models.TimeSlot, error)
	InsertSlot(ctx context.Context, mentorID string, date calendar.Date, slot models.TimeSlot) error
	DeleteSlot(ctx context.Context, mentorID string, date calendar.Date, slotID string) (bool, error)
}

type availabilityMentorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
	FindByUserID(ctx context.Context, userID string) (*models.Mentor, error)
}

// AvailabilityService manages mentor schedules: the month view students
// browse and the slot mutations mentors perform.
type AvailabilityService struct {
	repo      availabilityRepository
	mentors   availabilityMentorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, mentors availabilityMentorRepository, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AvailabilityService{repo: repo, mentors: mentors, validator: validate, logger: logger}
}

// MonthView returns the complete Sunday-to-Saturday month grid for a mentor,
// each cell annotated with that day's availability. Leading and trailing
// cells from adjacent months are included so the result is always a whole
// number of weeks.
func (s *AvailabilityService) MonthView(ctx context.Context, mentorID string, year int, month time.Month) ([]models.MonthDay, error) {
	if _, err := s.requireMentor(ctx, mentorID); err != nil {
		return nil, err
	}

	grid := calendar.BuildMonthGrid(year, month)
	from := grid[0].Date
	to := grid[len(grid)-1].Date

	days, err := s.repo.ListDays(ctx, mentorID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	byDate := make(map[calendar.Date]models.AvailabilityDay, len(days))
	for _, day := range days {
		byDate[day.Date] = day
	}

	view := make([]models.MonthDay, 0, len(grid))
	for _, cell := range grid {
		day, ok := byDate[cell.Date]
		view = append(view, models.MonthDay{
			DayCell:         cell,
			HasAvailability: ok && len(day.TimeSlots) > 0,
			SlotCount:       len(day.TimeSlots),
		})
	}
	return view, nil
}

// DaySlots returns a mentor's slots for one date in insertion order. A date
// without slots yields an empty list, not an error.
func (s *AvailabilityService) DaySlots(ctx context.Context, mentorID, dateValue string) ([]models.TimeSlot, error) {
	date, err := calendar.ParseDate(dateValue)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	if _, err := s.requireMentor(ctx, mentorID); err != nil {
		return nil, err
	}
	slots, err := s.repo.ListSlots(ctx, mentorID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slots")
	}
	return slots, nil
}

// Schedule returns a mentor's availability days between from and to,
// sorted by date.
func (s *AvailabilityService) Schedule(ctx context.Context, mentorID string, from, to calendar.Date) ([]models.AvailabilityDay, error) {
	if _, err := s.requireMentor(ctx, mentorID); err != nil {
		return nil, err
	}
	days, err := s.repo.ListDays(ctx, mentorID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	return days, nil
}

// AddSlot opens a new slot on the calling mentor's schedule. The time range
// is validated before anything is written; an invalid range leaves the
// schedule untouched. Overlapping or duplicate slots are permitted.
func (s *AvailabilityService) AddSlot(ctx context.Context, userID string, req models.AddSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	if err := schedule.ValidateRange(req.StartTime, req.EndTime); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time range")
	}

	mentor, err := s.requireMentorByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	slot := models.TimeSlot{
		ID:        uuid.NewString(),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.repo.InsertSlot(ctx, mentor.ID, date, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add slot")
	}
	s.logger.Info("slot added",
		zap.String("mentor_id", mentor.ID),
		zap.String("date", date.String()),
		zap.String("slot_id", slot.ID))
	return &slot, nil
}

// RemoveSlot deletes one slot from the calling mentor's schedule. Removing a
// slot that does not exist is a silent no-op, as is the day becoming empty:
// days without slots simply disappear from listings.
func (s *AvailabilityService) RemoveSlot(ctx context.Context, userID, dateValue, slotID string) error {
	date, err := calendar.ParseDate(dateValue)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	mentor, err := s.requireMentorByUser(ctx, userID)
	if err != nil {
		return err
	}
	removed, err := s.repo.DeleteSlot(ctx, mentor.ID, date, slotID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove slot")
	}
	if !removed {
		s.logger.Debug("remove of unknown slot ignored",
			zap.String("mentor_id", mentor.ID),
			zap.String("slot_id", slotID))
	}
	return nil
}

// GenerateWeekly expands a weekly template over the seven days starting at
// the request's start date and appends the resulting slots to the mentor's
// schedule. The template is validated in full before any slot is written.
// Repeating the call appends again; it does not deduplicate.
func (s *AvailabilityService) GenerateWeekly(ctx context.Context, userID string, req models.GenerateWeeklyRequest) ([]models.AvailabilityDay, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start date")
	}

	expanded, err := schedule.ExpandWeekly(start, req.Template)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid weekly template")
	}

	mentor, err := s.requireMentorByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for di := range expanded {
		for si := range expanded[di].TimeSlots {
			expanded[di].TimeSlots[si].ID = uuid.NewString()
			if err := s.repo.InsertSlot(ctx, mentor.ID, expanded[di].Date, expanded[di].TimeSlots[si]); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store generated slot")
			}
		}
	}
	s.logger.Info("weekly template applied",
		zap.String("mentor_id", mentor.ID),
		zap.String("start", start.String()),
		zap.Int("days", len(expanded)))
	return expanded, nil
}

func (s *AvailabilityService) requireMentor(ctx context.Context, mentorID string) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	return mentor, nil
}

func (s *AvailabilityService) requireMentorByUser(ctx context.Context, userID string) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no mentor profile for user")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	return mentor, nil
}
