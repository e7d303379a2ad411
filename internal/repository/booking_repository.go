package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
)

type bookingRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	MentorID  string    `db:"mentor_id"`
	SlotID    string    `db:"slot_id"`
	Day       time.Time `db:"day"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Status    string    `db:"status"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row bookingRow) toModel() models.Booking {
	return models.Booking{
		ID:        row.ID,
		StudentID: row.StudentID,
		MentorID:  row.MentorID,
		SlotID:    row.SlotID,
		Date:      calendar.DateOf(row.Day),
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Status:    models.BookingStatus(row.Status),
		Price:     row.Price,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

const bookingColumns = "id, student_id, mentor_id, slot_id, day, start_time, end_time, status, price, created_at, updated_at"

// BookingRepository manages persistence for session bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	const query = `INSERT INTO bookings (id, student_id, mentor_id, slot_id, day, start_time, end_time, status, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		booking.ID, booking.StudentID, booking.MentorID, booking.SlotID, booking.Date.Time(),
		booking.StartTime, booking.EndTime, booking.Status, booking.Price, booking.CreatedAt, booking.UpdatedAt); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// FindByID fetches a booking.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE id = $1 LIMIT 1", bookingColumns)
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	booking := row.toModel()
	return &booking, nil
}

// FindActiveBySlot returns the confirmed booking holding a slot, if any.
func (r *BookingRepository) FindActiveBySlot(ctx context.Context, slotID string) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE slot_id = $1 AND status = $2 LIMIT 1", bookingColumns)
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, slotID, models.BookingConfirmed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking by slot: %w", err)
	}
	booking := row.toModel()
	return &booking, nil
}

// List returns bookings matching the filter with total count, newest first.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	base := "FROM bookings WHERE 1=1"
	var args []interface{}

	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		base += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if filter.MentorID != "" {
		args = append(args, filter.MentorID)
		base += fmt.Sprintf(" AND mentor_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		base += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, filter.From.Time())
		base += fmt.Sprintf(" AND day >= $%d", len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY day ASC, created_at DESC LIMIT %d OFFSET %d", bookingColumns, base, size, offset)
	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	bookings := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toModel())
	}
	return bookings, total, nil
}

// UpdateStatus transitions a booking's lifecycle state.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	const query = `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}
