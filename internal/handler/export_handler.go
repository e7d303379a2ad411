package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/internal/service"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
	"github.com/mentorloop/mentorloop-api/pkg/response"
)

// ExportHandler serves CSV and PDF downloads of schedules and bookings.
type ExportHandler struct {
	service *service.ExportService
	mentors *service.MentorService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService, mentors *service.MentorService) *ExportHandler {
	return &ExportHandler{service: svc, mentors: mentors}
}

// Schedule godoc
// @Summary Export own schedule
// @Description Download the caller's availability as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /exports/schedule [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	mentor, err := h.mentors.GetByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	from, err := calendar.ParseDate(c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date"))
		return
	}
	to, err := calendar.ParseDate(c.Query("to"))
	if err != nil || to.Before(from) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date"))
		return
	}

	file, err := h.service.Schedule(c.Request.Context(), mentor.ID, from, to, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.serveExport(c, file)
}

// Bookings godoc
// @Summary Export own bookings
// @Description Download the caller's bookings as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /exports/bookings [get]
func (h *ExportHandler) Bookings(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.BookingFilter{}
	if claims.Role == models.RoleMentor {
		mentor, err := h.mentors.GetByUser(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.MentorID = mentor.ID
	} else {
		filter.StudentID = claims.UserID
	}

	file, err := h.service.Bookings(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.serveExport(c, file)
}

// Download godoc
// @Summary Download a stored export
// @Description Stream an export previously stored via link=true; the token is the credential
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, filename, err := h.service.OpenDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	headers := map[string]string{"Content-Disposition": `attachment; filename="` + filename + `"`}
	c.DataFromReader(200, info.Size(), contentTypeFor(filename), file, headers)
}

func exportFormat(c *gin.Context) service.ExportFormat {
	return service.ExportFormat(c.DefaultQuery("format", "csv"))
}

// serveExport streams the file inline, or stores it and answers with a
// signed download link when the caller passes link=true.
func (h *ExportHandler) serveExport(c *gin.Context, file *service.ExportFile) {
	if c.Query("link") == "true" {
		token, expiresAt, err := h.service.Store(file)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, 200, gin.H{
			"download_url": "/api/v1/exports/download/" + token,
			"expires_at":   expiresAt,
		}, nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(200, file.ContentType, file.Data)
}

func contentTypeFor(filename string) string {
	if strings.HasSuffix(filename, ".pdf") {
		return "application/pdf"
	}
	return "text/csv"
}
