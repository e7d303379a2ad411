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

const mentorColumns = "id, user_id, name, subject_id, bio, location, hourly_rate, rating, rating_count, available, created_at, updated_at"

// MentorRepository manages persistence for mentor listings.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs a MentorRepository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

// List returns mentors matching the coarse database filter; the catalog
// package applies search, price band and sorting in memory afterwards.
func (r *MentorRepository) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, error) {
	query := fmt.Sprintf("SELECT %s FROM mentors WHERE 1=1", mentorColumns)
	var args []interface{}

	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		query += fmt.Sprintf(" AND subject_id = $%d", len(args))
	}
	if filter.Available != nil {
		args = append(args, *filter.Available)
		query += fmt.Sprintf(" AND available = $%d", len(args))
	}
	query += " ORDER BY created_at ASC"

	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, query, args...); err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return mentors, nil
}

// FindByID fetches a mentor listing by ID.
func (r *MentorRepository) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	query := fmt.Sprintf("SELECT %s FROM mentors WHERE id = $1 LIMIT 1", mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, id); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// FindByUserID fetches the listing owned by a user account.
func (r *MentorRepository) FindByUserID(ctx context.Context, userID string) (*models.Mentor, error) {
	query := fmt.Sprintf("SELECT %s FROM mentors WHERE user_id = $1 LIMIT 1", mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, userID); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// Create inserts a new mentor listing.
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mentor.CreatedAt.IsZero() {
		mentor.CreatedAt = now
	}
	mentor.UpdatedAt = now

	const query = `INSERT INTO mentors (id, user_id, name, subject_id, bio, location, hourly_rate, rating, rating_count, available, created_at, updated_at)
		VALUES (:id, :user_id, :name, :subject_id, :bio, :location, :hourly_rate, :rating, :rating_count, :available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mentor); err != nil {
		return fmt.Errorf("create mentor: %w", err)
	}
	return nil
}

// Update modifies an existing mentor listing.
func (r *MentorRepository) Update(ctx context.Context, mentor *models.Mentor) error {
	mentor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE mentors SET name = :name, subject_id = :subject_id, bio = :bio, location = :location, hourly_rate = :hourly_rate, available = :available, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, mentor); err != nil {
		return fmt.Errorf("update mentor: %w", err)
	}
	return nil
}

// UpdateRating stores a recomputed rating aggregate.
func (r *MentorRepository) UpdateRating(ctx context.Context, id string, summary models.RatingSummary) error {
	const query = `UPDATE mentors SET rating = $2, rating_count = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, summary.Average, summary.Count, time.Now().UTC()); err != nil {
		return fmt.Errorf("update mentor rating: %w", err)
	}
	return nil
}

// ExistsByUserID reports whether the user already published a listing.
func (r *MentorRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT 1 FROM mentors WHERE user_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check mentor listing: %w", err)
	}
	return true, nil
}
