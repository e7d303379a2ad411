package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
)

func availabilityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "mentor_id", "day", "start_time", "end_time", "booked", "ordinal"})
}

func TestAvailabilityRepositoryListDaysGroupsByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	day1 := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.September, 9, 0, 0, 0, 0, time.UTC)
	rows := availabilityRows().
		AddRow("s1", "m1", day1, "10:00 AM", "11:00 AM", false, 1).
		AddRow("s2", "m1", day1, "02:00 PM", "03:00 PM", true, 2).
		AddRow("s3", "m1", day2, "09:00 AM", "10:00 AM", false, 3)
	mock.ExpectQuery("SELECT (.+) FROM availability_slots").
		WithArgs("m1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	days, err := repo.ListDays(context.Background(), "m1",
		calendar.NewDate(2026, time.September, 1), calendar.NewDate(2026, time.September, 30))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, calendar.NewDate(2026, time.September, 7), days[0].Date)
	require.Len(t, days[0].TimeSlots, 2)
	assert.Equal(t, "10:00 AM", days[0].TimeSlots[0].StartTime)
	assert.True(t, days[0].TimeSlots[1].Booked)
	require.Len(t, days[1].TimeSlots, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListSlotsEmptyDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM availability_slots").
		WithArgs("m1", sqlmock.AnyArg()).
		WillReturnRows(availabilityRows())

	slots, err := repo.ListSlots(context.Background(), "m1", calendar.NewDate(2026, time.September, 7))
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryInsertAndDeleteSlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)
	date := calendar.NewDate(2026, time.September, 7)

	mock.ExpectExec("INSERT INTO availability_slots").
		WithArgs("slot-1", "m1", sqlmock.AnyArg(), "10:00 AM", "11:00 AM", false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	err := repo.InsertSlot(context.Background(), "m1", date, models.TimeSlot{ID: "slot-1", StartTime: "10:00 AM", EndTime: "11:00 AM"})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_slots WHERE mentor_id = $1 AND day = $2 AND id = $3")).
		WithArgs("m1", sqlmock.AnyArg(), "slot-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	removed, err := repo.DeleteSlot(context.Background(), "m1", date, "slot-1")
	require.NoError(t, err)
	assert.True(t, removed)

	mock.ExpectExec("DELETE FROM availability_slots").
		WithArgs("m1", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	removed, err = repo.DeleteSlot(context.Background(), "m1", date, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryHasAvailability(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)
	date := calendar.NewDate(2026, time.September, 7)

	mock.ExpectQuery("SELECT 1 FROM availability_slots").
		WithArgs("m1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	has, err := repo.HasAvailability(context.Background(), "m1", date)
	require.NoError(t, err)
	assert.True(t, has)

	mock.ExpectQuery("SELECT 1 FROM availability_slots").
		WithArgs("m1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	has, err = repo.HasAvailability(context.Background(), "m1", date)
	require.NoError(t, err)
	assert.False(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}
