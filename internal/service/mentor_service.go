package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorloop/mentorloop-api/internal/catalog"
	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type mentorRepository interface {
	List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, error)
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
	FindByUserID(ctx context.Context, userID string) (*models.Mentor, error)
	Create(ctx context.Context, mentor *models.Mentor) error
	Update(ctx context.Context, mentor *models.Mentor) error
}

// BrowseResult is a filtered, sorted, paginated catalog page.
type BrowseResult struct {
	Mentors    []models.Mentor   `json:"mentors"`
	Pagination models.Pagination `json:"pagination"`
}

// MentorService serves the mentor catalog and mentor profile management.
type MentorService struct {
	repo        mentorRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	maxPageSize int
}

// NewMentorService constructs a MentorService.
func NewMentorService(repo mentorRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, maxPageSize int) *MentorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &MentorService{repo: repo, cache: cache, validator: validate, logger: logger, maxPageSize: maxPageSize}
}

// Browse applies the catalog filters and sort to the published mentor
// listings. Filtering narrows coarsely in the database, then precisely in
// memory so every criterion composes; the sort is stable so equal mentors
// keep their relevance order. Pagination happens after filtering.
func (s *MentorService) Browse(ctx context.Context, criteria models.FilterCriteria, page, pageSize int) (*BrowseResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	cacheKey := browseCacheKey(criteria, page, pageSize)
	if s.cache.Enabled() {
		var cached BrowseResult
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	dbFilter := models.MentorFilter{SubjectID: criteria.SubjectID}
	if criteria.AvailableOnly {
		available := true
		dbFilter.Available = &available
	}
	mentors, err := s.repo.List(ctx, dbFilter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentors")
	}

	filtered, err := catalog.FilterAndSort(mentors, criteria)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter criteria")
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	result := &BrowseResult{
		Mentors: filtered[start:end],
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
		},
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, result, 0); err != nil {
			s.logger.Debug("failed to cache browse result", zap.Error(err))
		}
	}
	return result, nil
}

// Get returns one mentor listing.
func (s *MentorService) Get(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	return mentor, nil
}

// GetByUser returns the mentor listing owned by a user account.
func (s *MentorService) GetByUser(ctx context.Context, userID string) (*models.Mentor, error) {
	mentor, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no mentor profile for user")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	return mentor, nil
}

// UpsertProfile creates the caller's mentor listing on first use and updates
// it afterwards. Rating fields are never written here; reviews own them.
func (s *MentorService) UpsertProfile(ctx context.Context, userID string, req models.UpsertMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor payload")
	}

	mentor, err := s.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}

	if mentor == nil || errors.Is(err, sql.ErrNoRows) {
		mentor = &models.Mentor{
			ID:     uuid.NewString(),
			UserID: userID,
		}
		applyMentorRequest(mentor, req)
		if err := s.repo.Create(ctx, mentor); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mentor profile")
		}
	} else {
		applyMentorRequest(mentor, req)
		if err := s.repo.Update(ctx, mentor); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mentor profile")
		}
	}

	if err := s.cache.Invalidate(ctx, "mentors:*"); err != nil {
		s.logger.Debug("failed to invalidate mentor cache", zap.Error(err))
	}
	return mentor, nil
}

func applyMentorRequest(mentor *models.Mentor, req models.UpsertMentorRequest) {
	mentor.Name = req.Name
	mentor.SubjectID = req.SubjectID
	mentor.Bio = req.Bio
	mentor.Location = req.Location
	mentor.HourlyRate = req.HourlyRate
	mentor.Available = req.Available
}

func browseCacheKey(criteria models.FilterCriteria, page, pageSize int) string {
	return fmt.Sprintf("mentors:%s|%s|%s|%t|%s|p%d|s%d",
		criteria.SearchTerm, criteria.SubjectID, criteria.PriceRange,
		criteria.AvailableOnly, criteria.SortKey, page, pageSize)
}
