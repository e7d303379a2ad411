package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mentorloop/mentorloop-api/internal/models"
)

// ReviewRepository manages persistence for mentor reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reviews (id, mentor_id, student_id, booking_id, rating, comment, created_at)
		VALUES (:id, :mentor_id, :student_id, :booking_id, :rating, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListByMentor returns a mentor's reviews, newest first.
func (r *ReviewRepository) ListByMentor(ctx context.Context, mentorID string, limit int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT id, mentor_id, student_id, booking_id, rating, comment, created_at
		FROM reviews WHERE mentor_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, mentorID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// ExistsForBooking reports whether the booking was already reviewed.
func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	const query = `SELECT 1 FROM reviews WHERE booking_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, bookingID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check review: %w", err)
	}
	return true, nil
}

// Summary computes the mentor's aggregate rating.
func (r *ReviewRepository) Summary(ctx context.Context, mentorID string) (models.RatingSummary, error) {
	const query = `SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count FROM reviews WHERE mentor_id = $1`
	var summary models.RatingSummary
	if err := r.db.GetContext(ctx, &summary, query, mentorID); err != nil {
		return models.RatingSummary{}, fmt.Errorf("rating summary: %w", err)
	}
	return summary, nil
}
