// Package catalog implements the in-memory filter and sort behind the mentor
// browse views.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mentorloop/mentorloop-api/internal/models"
)

// PriceBand is a labeled hourly-rate interval. Both bounds are inclusive; an
// open band has Max < 0.
type PriceBand struct {
	Min float64
	Max float64
}

// Matches reports whether the rate falls inside the band.
func (b PriceBand) Matches(rate float64) bool {
	if rate < b.Min {
		return false
	}
	return b.Max < 0 || rate <= b.Max
}

// ParsePriceBand resolves a band label ("0-20", "20-40", "40-60", "60+").
// "any" and the empty string disable price filtering.
func ParsePriceBand(label string) (PriceBand, bool, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "any") {
		return PriceBand{}, false, nil
	}
	if cut, ok := strings.CutSuffix(label, "+"); ok {
		min, err := strconv.ParseFloat(cut, 64)
		if err != nil {
			return PriceBand{}, false, fmt.Errorf("invalid price band %q", label)
		}
		return PriceBand{Min: min, Max: -1}, true, nil
	}
	lo, hi, ok := strings.Cut(label, "-")
	if !ok {
		return PriceBand{}, false, fmt.Errorf("invalid price band %q", label)
	}
	min, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return PriceBand{}, false, fmt.Errorf("invalid price band %q", label)
	}
	max, err := strconv.ParseFloat(hi, 64)
	if err != nil || max < min {
		return PriceBand{}, false, fmt.Errorf("invalid price band %q", label)
	}
	return PriceBand{Min: min, Max: max}, true, nil
}

// FilterAndSort returns the mentors matching the criteria in the requested
// order. The input slice is never mutated; the sort is stable so ties keep
// their original order. An empty result is a valid outcome, not an error.
func FilterAndSort(mentors []models.Mentor, criteria models.FilterCriteria) ([]models.Mentor, error) {
	band, priced, err := ParsePriceBand(criteria.PriceRange)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(criteria.SearchTerm))
	out := make([]models.Mentor, 0, len(mentors))
	for _, m := range mentors {
		if search != "" && !matchesSearch(m, search) {
			continue
		}
		if criteria.SubjectID != "" && m.SubjectID != criteria.SubjectID {
			continue
		}
		if criteria.AvailableOnly && !m.Available {
			continue
		}
		if priced && !band.Matches(m.HourlyRate) {
			continue
		}
		out = append(out, m)
	}

	switch criteria.SortKey {
	case "", models.SortRelevance:
		// Relevance keeps filter order.
	case models.SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case models.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].HourlyRate < out[j].HourlyRate })
	case models.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].HourlyRate > out[j].HourlyRate })
	default:
		return nil, fmt.Errorf("unknown sort key %q", criteria.SortKey)
	}
	return out, nil
}

// Search matches name OR skill, never both at once.
func matchesSearch(m models.Mentor, search string) bool {
	return strings.Contains(strings.ToLower(m.Name), search) ||
		strings.Contains(strings.ToLower(m.SubjectID), search)
}
