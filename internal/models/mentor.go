package models

import "time"

// Mentor represents a published mentor listing.
type Mentor struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	Bio         string    `db:"bio" json:"bio"`
	Location    string    `db:"location" json:"location"`
	HourlyRate  float64   `db:"hourly_rate" json:"hourly_rate"`
	Rating      float64   `db:"rating" json:"rating"`
	RatingCount int       `db:"rating_count" json:"rating_count"`
	Available   bool      `db:"available" json:"available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Sort keys accepted by the mentor catalog. Relevance keeps filter order; no
// scoring model exists.
const (
	SortRelevance = "relevance"
	SortRating    = "rating"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
)

// FilterCriteria captures the browse filters of the catalog page.
type FilterCriteria struct {
	SearchTerm    string `json:"search_term" form:"search"`
	SubjectID     string `json:"subject_id" form:"subject"`
	PriceRange    string `json:"price_range" form:"price_range"`
	AvailableOnly bool   `json:"available_only" form:"available_only"`
	SortKey       string `json:"sort_key" form:"sort"`
}

// UpsertMentorRequest creates or updates the caller's mentor listing.
type UpsertMentorRequest struct {
	Name       string  `json:"name" validate:"required"`
	SubjectID  string  `json:"subject_id" validate:"required"`
	Bio        string  `json:"bio"`
	Location   string  `json:"location"`
	HourlyRate float64 `json:"hourly_rate" validate:"required,gt=0"`
	Available  bool    `json:"available"`
}

// MentorFilter narrows the database listing ahead of in-memory filtering.
type MentorFilter struct {
	SubjectID string
	Available *bool
	Page      int
	PageSize  int
}
