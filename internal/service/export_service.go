package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/export"
	"github.com/mentorloop/mentorloop-api/pkg/storage"
)

// ExportFormat identifies a supported export encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered document ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders mentor schedules and booking lists as downloadable
// CSV or PDF documents.
type ExportService struct {
	availability *AvailabilityService
	bookings     bookingRepository
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	store        *storage.LocalStorage
	signer       *storage.SignedURLSigner
	title        string
	logger       *zap.Logger
}

// NewExportService constructs an ExportService. Store and signer may be nil,
// which disables signed download links; inline downloads keep working.
func NewExportService(availability *AvailabilityService, bookings bookingRepository, store *storage.LocalStorage, signer *storage.SignedURLSigner, title string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if title == "" {
		title = "MentorLoop"
	}
	return &ExportService{
		availability: availability,
		bookings:     bookings,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		store:        store,
		signer:       signer,
		title:        title,
		logger:       logger,
	}
}

// Schedule exports a mentor's availability between from and to.
func (s *ExportService) Schedule(ctx context.Context, mentorID string, from, to calendar.Date, format ExportFormat) (*ExportFile, error) {
	days, err := s.availability.Schedule(ctx, mentorID, from, to)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: []string{"date", "start_time", "end_time", "booked"}}
	for _, day := range days {
		for _, slot := range day.TimeSlots {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"date":       day.Date.String(),
				"start_time": slot.StartTime,
				"end_time":   slot.EndTime,
				"booked":     strconv.FormatBool(slot.Booked),
			})
		}
	}
	return s.render(dataset, fmt.Sprintf("schedule-%s", mentorID), "Mentor Schedule", format)
}

// Bookings exports the bookings matching the filter.
func (s *ExportService) Bookings(ctx context.Context, filter models.BookingFilter, format ExportFormat) (*ExportFile, error) {
	filter.PageSize = 100
	bookings, _, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}

	dataset := export.Dataset{Headers: []string{"date", "start_time", "end_time", "status", "price"}}
	for _, booking := range bookings {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"date":       booking.Date.String(),
			"start_time": booking.StartTime,
			"end_time":   booking.EndTime,
			"status":     string(booking.Status),
			"price":      strconv.FormatFloat(booking.Price, 'f', 2, 64),
		})
	}
	return s.render(dataset, "bookings", "Bookings", format)
}

func (s *ExportService) render(dataset export.Dataset, basename, title string, format ExportFormat) (*ExportFile, error) {
	switch format {
	case FormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: basename + ".csv", ContentType: "text/csv", Data: data}, nil
	case FormatPDF:
		data, err := s.pdf.Render(dataset, fmt.Sprintf("%s - %s", s.title, title))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: basename + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

// Store persists a rendered export on disk and returns a signed download
// token with its expiry.
func (s *ExportService) Store(file *ExportFile) (string, time.Time, error) {
	if s.store == nil || s.signer == nil {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrValidation, "download links are not enabled")
	}

	id := uuid.NewString()
	relPath := path.Join(id, file.Filename)
	if _, err := s.store.Save(relPath, file.Data); err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return token, expiresAt, nil
}

// OpenDownload resolves a signed token to the stored file. Invalid, expired
// and already-cleaned tokens all surface as not found.
func (s *ExportService) OpenDownload(token string) (*os.File, string, error) {
	if s.store == nil || s.signer == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "download not found")
	}

	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "download link invalid or expired")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "download no longer available")
	}
	return file, path.Base(relPath), nil
}

// CleanupDownloads removes stored exports older than ttl.
func (s *ExportService) CleanupDownloads(ttl time.Duration) {
	if s.store == nil {
		return
	}
	deleted, err := s.store.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("cleaned up stored exports", zap.Int("count", len(deleted)))
	}
}
