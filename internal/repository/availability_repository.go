package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
)

// availabilityRow is the flat table shape; the day column is a DATE and the
// clock labels stay text, exactly as entered.
type availabilityRow struct {
	ID        string    `db:"id"`
	MentorID  string    `db:"mentor_id"`
	Day       time.Time `db:"day"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Booked    bool      `db:"booked"`
	Ordinal   int64     `db:"ordinal"`
}

// AvailabilityRepository persists mentor availability slots. Insertion order
// within a day is preserved via the ordinal sequence; days exist only
// implicitly, so deleting the last slot of a day deletes the day.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListDays returns the mentor's non-empty days inside [from, to], slots in
// insertion order.
func (r *AvailabilityRepository) ListDays(ctx context.Context, mentorID string, from, to calendar.Date) ([]models.AvailabilityDay, error) {
	const query = `SELECT id, mentor_id, day, start_time, end_time, booked, ordinal FROM availability_slots
		WHERE mentor_id = $1 AND day >= $2 AND day <= $3 ORDER BY day ASC, ordinal ASC`
	var rows []availabilityRow
	if err := r.db.SelectContext(ctx, &rows, query, mentorID, from.Time(), to.Time()); err != nil {
		return nil, fmt.Errorf("list availability days: %w", err)
	}

	var days []models.AvailabilityDay
	for _, row := range rows {
		date := calendar.DateOf(row.Day)
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, models.AvailabilityDay{Date: date})
		}
		last := &days[len(days)-1]
		last.TimeSlots = append(last.TimeSlots, models.TimeSlot{
			ID:        row.ID,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Booked:    row.Booked,
		})
	}
	return days, nil
}

// ListSlots returns the slots of one day in insertion order. An unknown day
// yields an empty slice.
func (r *AvailabilityRepository) ListSlots(ctx context.Context, mentorID string, date calendar.Date) ([]models.TimeSlot, error) {
	const query = `SELECT id, mentor_id, day, start_time, end_time, booked, ordinal FROM availability_slots
		WHERE mentor_id = $1 AND day = $2 ORDER BY ordinal ASC`
	var rows []availabilityRow
	if err := r.db.SelectContext(ctx, &rows, query, mentorID, date.Time()); err != nil {
		return nil, fmt.Errorf("list availability slots: %w", err)
	}
	slots := make([]models.TimeSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, models.TimeSlot{ID: row.ID, StartTime: row.StartTime, EndTime: row.EndTime, Booked: row.Booked})
	}
	return slots, nil
}

// GetSlot fetches one slot of a mentor's day.
func (r *AvailabilityRepository) GetSlot(ctx context.Context, mentorID string, date calendar.Date, slotID string) (*models.TimeSlot, error) {
	const query = `SELECT id, mentor_id, day, start_time, end_time, booked, ordinal FROM availability_slots
		WHERE mentor_id = $1 AND day = $2 AND id = $3 LIMIT 1`
	var row availabilityRow
	if err := r.db.GetContext(ctx, &row, query, mentorID, date.Time(), slotID); err != nil {
		return nil, err
	}
	return &models.TimeSlot{ID: row.ID, StartTime: row.StartTime, EndTime: row.EndTime, Booked: row.Booked}, nil
}

// InsertSlot appends a slot to the mentor's day.
func (r *AvailabilityRepository) InsertSlot(ctx context.Context, mentorID string, date calendar.Date, slot models.TimeSlot) error {
	const query = `INSERT INTO availability_slots (id, mentor_id, day, start_time, end_time, booked)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, slot.ID, mentorID, date.Time(), slot.StartTime, slot.EndTime, slot.Booked); err != nil {
		return fmt.Errorf("insert availability slot: %w", err)
	}
	return nil
}

// DeleteSlot removes a slot; removing an unknown slot is a no-op and returns
// false.
func (r *AvailabilityRepository) DeleteSlot(ctx context.Context, mentorID string, date calendar.Date, slotID string) (bool, error) {
	const query = `DELETE FROM availability_slots WHERE mentor_id = $1 AND day = $2 AND id = $3`
	res, err := r.db.ExecContext(ctx, query, mentorID, date.Time(), slotID)
	if err != nil {
		return false, fmt.Errorf("delete availability slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete availability slot: %w", err)
	}
	return affected > 0, nil
}

// HasAvailability reports whether any slots exist for the mentor on the date.
func (r *AvailabilityRepository) HasAvailability(ctx context.Context, mentorID string, date calendar.Date) (bool, error) {
	const query = `SELECT 1 FROM availability_slots WHERE mentor_id = $1 AND day = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, mentorID, date.Time()); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check availability: %w", err)
	}
	return true, nil
}

// MarkBooked flips the booked flag of a slot.
func (r *AvailabilityRepository) MarkBooked(ctx context.Context, slotID string, booked bool) error {
	const query = `UPDATE availability_slots SET booked = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, slotID, booked); err != nil {
		return fmt.Errorf("mark slot booked: %w", err)
	}
	return nil
}
