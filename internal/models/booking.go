package models

import (
	"time"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
)

// BookingStatus enumerates booking lifecycle states.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking ties a student to one concrete slot of a mentor's availability.
type Booking struct {
	ID        string        `db:"id" json:"id"`
	StudentID string        `db:"student_id" json:"student_id"`
	MentorID  string        `db:"mentor_id" json:"mentor_id"`
	SlotID    string        `db:"slot_id" json:"slot_id"`
	Date      calendar.Date `json:"date"`
	StartTime string        `db:"start_time" json:"start_time"`
	EndTime   string        `db:"end_time" json:"end_time"`
	Status    BookingStatus `db:"status" json:"status"`
	Price     float64       `db:"price" json:"price"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// CreateBookingRequest books one open slot of a mentor's schedule.
type CreateBookingRequest struct {
	MentorID string `json:"mentor_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	SlotID   string `json:"slot_id" validate:"required"`
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	StudentID string
	MentorID  string
	Status    *BookingStatus
	From      *calendar.Date
	Page      int
	PageSize  int
}
