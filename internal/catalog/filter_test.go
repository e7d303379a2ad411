package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentorloop-api/internal/models"
)

func sampleMentors() []models.Mentor {
	return []models.Mentor{
		{ID: "1", Name: "Ann", SubjectID: "math", HourlyRate: 30, Available: true, Rating: 4.5},
		{ID: "2", Name: "Bo", SubjectID: "art", HourlyRate: 50, Available: false, Rating: 4.9},
		{ID: "3", Name: "Cleo", SubjectID: "math", HourlyRate: 20, Available: true, Rating: 4.5},
		{ID: "4", Name: "Dana", SubjectID: "physics", HourlyRate: 60, Available: true, Rating: 3.8},
	}
}

func names(mentors []models.Mentor) []string {
	out := make([]string, len(mentors))
	for i, m := range mentors {
		out[i] = m.Name
	}
	return out
}

func TestFilterAvailableOnly(t *testing.T) {
	got, err := FilterAndSort(
		[]models.Mentor{
			{Name: "Ann", SubjectID: "math", HourlyRate: 30, Available: true, Rating: 4.5},
			{Name: "Bo", SubjectID: "art", HourlyRate: 50, Available: false, Rating: 4.9},
		},
		models.FilterCriteria{AvailableOnly: true},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann"}, names(got))
}

func TestSearchMatchesNameOrSkill(t *testing.T) {
	got, err := FilterAndSort(sampleMentors(), models.FilterCriteria{SearchTerm: "math"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Cleo"}, names(got))

	got, err = FilterAndSort(sampleMentors(), models.FilterCriteria{SearchTerm: "AN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Dana"}, names(got))
}

func TestSubjectFilterIsExact(t *testing.T) {
	got, err := FilterAndSort(sampleMentors(), models.FilterCriteria{SubjectID: "art"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bo"}, names(got))
}

func TestPriceBandBoundsInclusive(t *testing.T) {
	got, err := FilterAndSort(sampleMentors(), models.FilterCriteria{PriceRange: "20-40"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Cleo"}, names(got))

	got, err = FilterAndSort(sampleMentors(), models.FilterCriteria{PriceRange: "60+"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dana"}, names(got))

	got, err = FilterAndSort(sampleMentors(), models.FilterCriteria{PriceRange: "any"})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = FilterAndSort(sampleMentors(), models.FilterCriteria{PriceRange: "cheap"})
	assert.Error(t, err)
}

func TestSortByRatingDescending(t *testing.T) {
	got, err := FilterAndSort(
		[]models.Mentor{
			{Name: "Ann", Rating: 4.5},
			{Name: "Bo", Rating: 4.9},
		},
		models.FilterCriteria{SortKey: models.SortRating},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bo", "Ann"}, names(got))
}

func TestSortStabilityOnTies(t *testing.T) {
	got, err := FilterAndSort(sampleMentors(), models.FilterCriteria{SortKey: models.SortRating})
	require.NoError(t, err)
	// Ann and Cleo share 4.5 and must keep their input order.
	assert.Equal(t, []string{"Bo", "Ann", "Cleo", "Dana"}, names(got))
}

func TestSortByPrice(t *testing.T) {
	low, err := FilterAndSort(sampleMentors(), models.FilterCriteria{SortKey: models.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cleo", "Ann", "Bo", "Dana"}, names(low))

	high, err := FilterAndSort(sampleMentors(), models.FilterCriteria{SortKey: models.SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dana", "Bo", "Ann", "Cleo"}, names(high))
}

func TestRelevanceKeepsFilterOrder(t *testing.T) {
	got, err := FilterAndSort(sampleMentors(), models.FilterCriteria{SortKey: models.SortRelevance})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Bo", "Cleo", "Dana"}, names(got))
}

func TestUnknownSortKeyRejected(t *testing.T) {
	_, err := FilterAndSort(sampleMentors(), models.FilterCriteria{SortKey: "cheapest"})
	require.Error(t, err)
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	got, err := FilterAndSort(sampleMentors(), models.FilterCriteria{SearchTerm: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = FilterAndSort(nil, models.FilterCriteria{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInputSliceNotMutated(t *testing.T) {
	mentors := sampleMentors()
	_, err := FilterAndSort(mentors, models.FilterCriteria{SortKey: models.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Bo", "Cleo", "Dana"}, names(mentors))
}
