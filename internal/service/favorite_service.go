package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type favoriteRepository interface {
	Add(ctx context.Context, studentID, mentorID string) error
	Remove(ctx context.Context, studentID, mentorID string) error
	Exists(ctx context.Context, studentID, mentorID string) (bool, error)
	ListMentors(ctx context.Context, studentID string) ([]models.Mentor, error)
}

// FavoriteService manages a student's saved mentors. Adds and removes are
// idempotent.
type FavoriteService struct {
	repo    favoriteRepository
	mentors availabilityMentorRepository
	logger  *zap.Logger
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(repo favoriteRepository, mentors availabilityMentorRepository, logger *zap.Logger) *FavoriteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoriteService{repo: repo, mentors: mentors, logger: logger}
}

// Add saves a mentor to the student's favorites. Saving twice is a no-op.
func (s *FavoriteService) Add(ctx context.Context, studentID, mentorID string) error {
	if _, err := s.mentors.FindByID(ctx, mentorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	if err := s.repo.Add(ctx, studentID, mentorID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add favorite")
	}
	return nil
}

// Remove deletes a saved mentor. Removing an unsaved mentor is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, studentID, mentorID string) error {
	if err := s.repo.Remove(ctx, studentID, mentorID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove favorite")
	}
	return nil
}

// IsFavorite reports whether the student has saved the mentor.
func (s *FavoriteService) IsFavorite(ctx context.Context, studentID, mentorID string) (bool, error) {
	saved, err := s.repo.Exists(ctx, studentID, mentorID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check favorite")
	}
	return saved, nil
}

// List returns the student's saved mentors, most recently saved first.
func (s *FavoriteService) List(ctx context.Context, studentID string) ([]models.Mentor, error) {
	mentors, err := s.repo.ListMentors(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list favorites")
	}
	return mentors, nil
}
