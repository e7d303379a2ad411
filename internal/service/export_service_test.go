package service

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/storage"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(nil, nil, store, signer, "MentorLoop", nil)
}

func TestExportStoreAndDownloadRoundtrip(t *testing.T) {
	svc := newExportFixture(t)

	file := &ExportFile{Filename: "schedule-m1.csv", ContentType: "text/csv", Data: []byte("date,start_time\n2026-09-07,10:00 AM\n")}
	token, expiresAt, err := svc.Store(file)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	handle, filename, err := svc.OpenDownload(token)
	require.NoError(t, err)
	defer handle.Close() //nolint:errcheck

	assert.Equal(t, "schedule-m1.csv", filename)
	data, err := io.ReadAll(handle)
	require.NoError(t, err)
	assert.Equal(t, file.Data, data)
}

func TestExportDownloadRejectsBadToken(t *testing.T) {
	svc := newExportFixture(t)

	_, _, err := svc.OpenDownload("not-a-token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestExportStoreDisabledWithoutStorage(t *testing.T) {
	svc := NewExportService(nil, nil, nil, nil, "MentorLoop", nil)

	_, _, err := svc.Store(&ExportFile{Filename: "bookings.csv", Data: []byte("x")})
	require.Error(t, err)

	_, _, err = svc.OpenDownload("anything")
	require.Error(t, err)
}
