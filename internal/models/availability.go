package models

import (
	"time"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
)

// TimeSlot is a bounded time interval on a specific day during which a mentor
// is open for booking. Times are clock labels validated by the schedule
// package; IDs are unique within the owning day.
type TimeSlot struct {
	ID        string `db:"id" json:"id"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Booked    bool   `db:"booked" json:"booked"`
}

// AvailabilityDay groups the slots of one calendar date in insertion order.
// A day only exists while it has slots; empty days are pruned on removal.
type AvailabilityDay struct {
	Date      calendar.Date `json:"date"`
	TimeSlots []TimeSlot    `json:"time_slots"`
}

// WeeklyTemplateEntry describes one recurring slot of a weekly schedule
// template.
type WeeklyTemplateEntry struct {
	Weekday   time.Weekday `json:"weekday"`
	StartTime string       `json:"start_time" validate:"required"`
	EndTime   string       `json:"end_time" validate:"required"`
}

// AddSlotRequest opens a new slot on one of the mentor's days.
type AddSlotRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// GenerateWeeklyRequest expands a weekly template over the week starting at
// StartDate.
type GenerateWeeklyRequest struct {
	StartDate string                `json:"start_date" validate:"required"`
	Template  []WeeklyTemplateEntry `json:"template" validate:"required,min=1,dive"`
}

// MonthDay is one cell of the availability month view: the plain grid cell
// plus whether the mentor has any slots that day.
type MonthDay struct {
	calendar.DayCell
	HasAvailability bool `json:"has_availability"`
	SlotCount       int  `json:"slot_count"`
}
