package models

import "time"

// Review is a student rating of a mentor, attached to a completed booking.
type Review struct {
	ID        string    `db:"id" json:"id"`
	MentorID  string    `db:"mentor_id" json:"mentor_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	BookingID string    `db:"booking_id" json:"booking_id"`
	Rating    float64   `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateReviewRequest rates a completed booking.
type CreateReviewRequest struct {
	BookingID string  `json:"booking_id" validate:"required"`
	Rating    float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment   string  `json:"comment" validate:"max=2000"`
}

// RatingSummary is the aggregate stored back onto the mentor listing.
type RatingSummary struct {
	Average float64 `db:"average" json:"average"`
	Count   int     `db:"count" json:"count"`
}
