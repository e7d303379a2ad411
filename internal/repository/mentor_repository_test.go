package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentorloop-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func mentorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "subject_id", "bio", "location", "hourly_rate", "rating", "rating_count", "available", "created_at", "updated_at"})
}

func TestMentorRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	rows := mentorRows().
		AddRow("m1", "u1", "Ann", "math", "", "Remote", 30.0, 4.5, 12, true, time.Now(), time.Now()).
		AddRow("m2", "u2", "Bo", "art", "", "Berlin", 50.0, 4.9, 3, false, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM mentors WHERE 1=1 ORDER BY created_at ASC").
		WillReturnRows(rows)

	mentors, err := repo.List(context.Background(), models.MentorFilter{})
	require.NoError(t, err)
	require.Len(t, mentors, 2)
	assert.Equal(t, "Ann", mentors[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryListFiltersSubjectAndAvailability(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND subject_id = $1 AND available = $2")).
		WithArgs("math", true).
		WillReturnRows(mentorRows())

	available := true
	_, err := repo.List(context.Background(), models.MentorFilter{SubjectID: "math", Available: &available})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryCreateAndUpdateRating(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectExec("INSERT INTO mentors").
		WithArgs(sqlmock.AnyArg(), "u1", "Ann", "math", "", "Remote", 30.0, 0.0, 0, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mentor := &models.Mentor{UserID: "u1", Name: "Ann", SubjectID: "math", Location: "Remote", HourlyRate: 30, Available: true}
	require.NoError(t, repo.Create(context.Background(), mentor))
	assert.NotEmpty(t, mentor.ID)

	mock.ExpectExec("UPDATE mentors SET rating").
		WithArgs(mentor.ID, 4.7, 10, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.UpdateRating(context.Background(), mentor.ID, models.RatingSummary{Average: 4.7, Count: 10}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
