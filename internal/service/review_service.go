package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByMentor(ctx context.Context, mentorID string, limit int) ([]models.Review, error)
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	Summary(ctx context.Context, mentorID string) (models.RatingSummary, error)
}

type reviewBookingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
}

type reviewMentorRepository interface {
	UpdateRating(ctx context.Context, id string, summary models.RatingSummary) error
}

// ReviewService records student reviews and keeps the mentor's aggregate
// rating in sync with them.
type ReviewService struct {
	repo      reviewRepository
	bookings  reviewBookingRepository
	mentors   reviewMentorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(repo reviewRepository, bookings reviewBookingRepository, mentors reviewMentorRepository, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReviewService{repo: repo, bookings: bookings, mentors: mentors, validator: validate, logger: logger}
}

// Create stores a review for a completed booking and recomputes the
// mentor's rating aggregate. One review per booking.
func (s *ReviewService) Create(ctx context.Context, studentID string, req models.CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	if booking.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "booking does not belong to user")
	}
	if booking.Status != models.BookingCompleted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only completed bookings can be reviewed")
	}

	exists, err := s.repo.ExistsForBooking(ctx, booking.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing review")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking has already been reviewed")
	}

	review := &models.Review{
		MentorID:  booking.MentorID,
		StudentID: studentID,
		BookingID: booking.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}

	summary, err := s.repo.Summary(ctx, booking.MentorID)
	if err != nil {
		s.logger.Error("failed to recompute rating summary", zap.String("mentor_id", booking.MentorID), zap.Error(err))
		return review, nil
	}
	if err := s.mentors.UpdateRating(ctx, booking.MentorID, summary); err != nil {
		s.logger.Error("failed to store rating summary", zap.String("mentor_id", booking.MentorID), zap.Error(err))
	}
	return review, nil
}

// ListByMentor returns a mentor's most recent reviews.
func (s *ReviewService) ListByMentor(ctx context.Context, mentorID string, limit int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	reviews, err := s.repo.ListByMentor(ctx, mentorID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}
