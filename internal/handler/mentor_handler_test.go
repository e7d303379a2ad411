package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentorloop-api/internal/middleware"
	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/internal/service"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type mentorCatalogServiceMock struct {
	browseResp *service.BrowseResult
	browseErr  error
	getResp    *models.Mentor
	getErr     error
	upsertResp *models.Mentor

	browseCalled bool
	upsertCalled bool
	lastCriteria models.FilterCriteria
	lastPage     int
	lastPageSize int
	lastUpsert   models.UpsertMentorRequest
}

func (m *mentorCatalogServiceMock) Browse(ctx context.Context, criteria models.FilterCriteria, page, pageSize int) (*service.BrowseResult, error) {
	m.browseCalled = true
	m.lastCriteria = criteria
	m.lastPage = page
	m.lastPageSize = pageSize
	return m.browseResp, m.browseErr
}

func (m *mentorCatalogServiceMock) Get(ctx context.Context, id string) (*models.Mentor, error) {
	return m.getResp, m.getErr
}

func (m *mentorCatalogServiceMock) GetByUser(ctx context.Context, userID string) (*models.Mentor, error) {
	return m.getResp, m.getErr
}

func (m *mentorCatalogServiceMock) UpsertProfile(ctx context.Context, userID string, req models.UpsertMentorRequest) (*models.Mentor, error) {
	m.upsertCalled = true
	m.lastUpsert = req
	return m.upsertResp, nil
}

type favoriteCheckerMock struct {
	saved  bool
	called bool
}

func (m *favoriteCheckerMock) IsFavorite(ctx context.Context, studentID, mentorID string) (bool, error) {
	m.called = true
	return m.saved, nil
}

type reviewListerMock struct {
	reviews []models.Review
}

func (m *reviewListerMock) ListByMentor(ctx context.Context, mentorID string, limit int) ([]models.Review, error) {
	return m.reviews, nil
}

func newMentorHandlerFixture(svc *mentorCatalogServiceMock) (*MentorHandler, *favoriteCheckerMock) {
	favorites := &favoriteCheckerMock{}
	return NewMentorHandler(svc, favorites, &reviewListerMock{}), favorites
}

func TestMentorHandlerBrowse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mentorCatalogServiceMock{
		browseResp: &service.BrowseResult{
			Mentors:    []models.Mentor{{ID: "m1", Name: "Ann"}},
			Pagination: models.Pagination{Page: 2, PageSize: 5, TotalCount: 11},
		},
	}
	h, _ := newMentorHandlerFixture(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/mentors?subject=math&price_range=20-40&sort=price_low&page=2&page_size=5", nil)
	c.Request = req

	h.Browse(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.browseCalled)
	assert.Equal(t, "math", mockSvc.lastCriteria.SubjectID)
	assert.Equal(t, "20-40", mockSvc.lastCriteria.PriceRange)
	assert.Equal(t, "price_low", mockSvc.lastCriteria.SortKey)
	assert.Equal(t, 2, mockSvc.lastPage)
	assert.Equal(t, 5, mockSvc.lastPageSize)
}

func TestMentorHandlerBrowseServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mentorCatalogServiceMock{
		browseErr: appErrors.Clone(appErrors.ErrValidation, "unknown sort key"),
	}
	h, _ := newMentorHandlerFixture(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/mentors?sort=bogus", nil)
	c.Request = req

	h.Browse(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMentorHandlerGetAnonymousSkipsFavorite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mentorCatalogServiceMock{getResp: &models.Mentor{ID: "m1", Name: "Ann"}}
	h, favorites := newMentorHandlerFixture(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/mentors/m1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "m1"}}

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, favorites.called)
}

func TestMentorHandlerGetAuthenticatedIncludesFavorite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mentorCatalogServiceMock{getResp: &models.Mentor{ID: "m1", Name: "Ann"}}
	h, favorites := newMentorHandlerFixture(mockSvc)
	favorites.saved = true

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/mentors/m1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "m1"}}
	c.Set(middleware.ContextUserKey, studentClaims())

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, favorites.called)

	var envelope struct {
		Data struct {
			IsFavorite bool `json:"is_favorite"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.IsFavorite)
}

func TestMentorHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mentorCatalogServiceMock{getErr: appErrors.ErrNotFound}
	h, _ := newMentorHandlerFixture(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/mentors/nope", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMentorHandlerUpsertProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mentorCatalogServiceMock{upsertResp: &models.Mentor{ID: "m1", Name: "Ann", HourlyRate: 45}}
	h, _ := newMentorHandlerFixture(mockSvc)

	body, _ := json.Marshal(models.UpsertMentorRequest{Name: "Ann", SubjectID: "math", HourlyRate: 45, Available: true})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/profile/mentor", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, mentorClaims())

	h.UpsertProfile(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.upsertCalled)
	assert.Equal(t, 45.0, mockSvc.lastUpsert.HourlyRate)
}

func TestMentorHandlerUpsertProfileRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mentorCatalogServiceMock{}
	h, _ := newMentorHandlerFixture(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/profile/mentor", bytes.NewBufferString(`{}`))
	c.Request = req

	h.UpsertProfile(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, mockSvc.upsertCalled)
}
