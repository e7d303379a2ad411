package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mentorloop/mentorloop-api/internal/models"
)

// FavoriteRepository manages students' saved mentors.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository constructs a FavoriteRepository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add saves a mentor for the student. Saving twice is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, studentID, mentorID string) error {
	const query = `INSERT INTO favorites (student_id, mentor_id, created_at)
		VALUES ($1, $2, $3) ON CONFLICT (student_id, mentor_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, studentID, mentorID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// Remove unsaves a mentor; removing an absent favorite is a no-op.
func (r *FavoriteRepository) Remove(ctx context.Context, studentID, mentorID string) error {
	const query = `DELETE FROM favorites WHERE student_id = $1 AND mentor_id = $2`
	if _, err := r.db.ExecContext(ctx, query, studentID, mentorID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Exists reports whether the student saved the mentor.
func (r *FavoriteRepository) Exists(ctx context.Context, studentID, mentorID string) (bool, error) {
	const query = `SELECT 1 FROM favorites WHERE student_id = $1 AND mentor_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, mentorID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return true, nil
}

// ListMentors returns the full mentor rows the student saved, newest first.
func (r *FavoriteRepository) ListMentors(ctx context.Context, studentID string) ([]models.Mentor, error) {
	query := fmt.Sprintf(`SELECT m.%s FROM mentors m
		JOIN favorites f ON f.mentor_id = m.id
		WHERE f.student_id = $1 ORDER BY f.created_at DESC`, mentorJoinColumns())
	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, query, studentID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return mentors, nil
}

func mentorJoinColumns() string {
	return "id, m.user_id, m.name, m.subject_id, m.bio, m.location, m.hourly_rate, m.rating, m.rating_count, m.available, m.created_at, m.updated_at"
}
