package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type catalogRepoStub struct {
	mentors []models.Mentor
	created []*models.Mentor
	updated []*models.Mentor
}

func (s *catalogRepoStub) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, error) {
	var out []models.Mentor
	for _, mentor := range s.mentors {
		if filter.SubjectID != "" && mentor.SubjectID != filter.SubjectID {
			continue
		}
		if filter.Available != nil && mentor.Available != *filter.Available {
			continue
		}
		out = append(out, mentor)
	}
	return out, nil
}

func (s *catalogRepoStub) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	for i := range s.mentors {
		if s.mentors[i].ID == id {
			return &s.mentors[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *catalogRepoStub) FindByUserID(ctx context.Context, userID string) (*models.Mentor, error) {
	for i := range s.mentors {
		if s.mentors[i].UserID == userID {
			return &s.mentors[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *catalogRepoStub) Create(ctx context.Context, mentor *models.Mentor) error {
	s.created = append(s.created, mentor)
	s.mentors = append(s.mentors, *mentor)
	return nil
}

func (s *catalogRepoStub) Update(ctx context.Context, mentor *models.Mentor) error {
	s.updated = append(s.updated, mentor)
	for i := range s.mentors {
		if s.mentors[i].ID == mentor.ID {
			s.mentors[i] = *mentor
		}
	}
	return nil
}

func catalogFixture() *catalogRepoStub {
	return &catalogRepoStub{mentors: []models.Mentor{
		{ID: "m1", UserID: "u1", Name: "Ann", SubjectID: "math", HourlyRate: 30, Rating: 4.5, Available: true},
		{ID: "m2", UserID: "u2", Name: "Bo", SubjectID: "music", HourlyRate: 55, Rating: 4.9, Available: true},
		{ID: "m3", UserID: "u3", Name: "Cleo", SubjectID: "math", HourlyRate: 80, Rating: 4.2, Available: false},
	}}
}

func TestBrowseFiltersAndSorts(t *testing.T) {
	svc := NewMentorService(catalogFixture(), nil, nil, nil, 0)

	result, err := svc.Browse(context.Background(), models.FilterCriteria{
		SubjectID: "math",
		SortKey:   models.SortPriceLow,
	}, 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Mentors, 2)
	assert.Equal(t, "Ann", result.Mentors[0].Name)
	assert.Equal(t, "Cleo", result.Mentors[1].Name)
	assert.Equal(t, 2, result.Pagination.TotalCount)
}

func TestBrowseAvailableOnlyAndPriceBand(t *testing.T) {
	svc := NewMentorService(catalogFixture(), nil, nil, nil, 0)

	result, err := svc.Browse(context.Background(), models.FilterCriteria{
		AvailableOnly: true,
		PriceRange:    "40-60",
	}, 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Mentors, 1)
	assert.Equal(t, "Bo", result.Mentors[0].Name)
}

func TestBrowsePaginatesAfterFiltering(t *testing.T) {
	svc := NewMentorService(catalogFixture(), nil, nil, nil, 0)

	result, err := svc.Browse(context.Background(), models.FilterCriteria{SortKey: models.SortRating}, 2, 1)
	require.NoError(t, err)
	require.Len(t, result.Mentors, 1)
	assert.Equal(t, "Ann", result.Mentors[0].Name)
	assert.Equal(t, 3, result.Pagination.TotalCount)

	beyond, err := svc.Browse(context.Background(), models.FilterCriteria{}, 9, 20)
	require.NoError(t, err)
	assert.Empty(t, beyond.Mentors)
	assert.Equal(t, 3, beyond.Pagination.TotalCount)
}

func TestBrowseRejectsUnknownSortKey(t *testing.T) {
	svc := NewMentorService(catalogFixture(), nil, nil, nil, 0)

	_, err := svc.Browse(context.Background(), models.FilterCriteria{SortKey: "cheapest"}, 1, 20)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpsertProfileCreatesThenUpdates(t *testing.T) {
	repo := catalogFixture()
	svc := NewMentorService(repo, nil, nil, nil, 0)

	mentor, err := svc.UpsertProfile(context.Background(), "u9", models.UpsertMentorRequest{
		Name:       "Dee",
		SubjectID:  "art",
		HourlyRate: 25,
		Available:  true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, mentor.ID)
	require.Len(t, repo.created, 1)

	updated, err := svc.UpsertProfile(context.Background(), "u9", models.UpsertMentorRequest{
		Name:       "Dee",
		SubjectID:  "art",
		HourlyRate: 35,
		Available:  false,
	})
	require.NoError(t, err)
	assert.Equal(t, mentor.ID, updated.ID)
	assert.Equal(t, 35.0, updated.HourlyRate)
	require.Len(t, repo.updated, 1)
}

func TestUpsertProfileRejectsInvalidPayload(t *testing.T) {
	svc := NewMentorService(catalogFixture(), nil, nil, nil, 0)

	_, err := svc.UpsertProfile(context.Background(), "u9", models.UpsertMentorRequest{Name: "Dee"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
