package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"drift_inc/internal/domain/models"
	"drift_inc/internal/racefacer"
	"drift_inc/internal/services/adminauth"
	"drift_inc/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) UploadBatch(ctx context.Context, input dto.BatchUploadInput) (dto.BatchUploadResult, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(dto.BatchUploadResult), args.Error(1)
}

func (m *MockGalleryService) List(ctx context.Context, category string, page, limit int) (dto.GalleryListResult, error) {
	args := m.Called(ctx, category, page, limit)
	return args.Get(0).(dto.GalleryListResult), args.Error(1)
}

func (m *MockGalleryService) Delete(ctx context.Context, id uuid.UUID) (models.GalleryItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.GalleryItem), args.Error(1)
}

func (m *MockGalleryService) Stats(ctx context.Context) (models.GalleryStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.GalleryStats), args.Error(1)
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, req dto.CreateEventRequest) (models.Event, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Event), args.Error(1)
}

func (m *MockEventService) List(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Get(ctx context.Context, section string) (models.ContentSection, error) {
	args := m.Called(ctx, section)
	return args.Get(0).(models.ContentSection), args.Error(1)
}

func (m *MockContentService) Save(ctx context.Context, section string, data map[string]interface{}) error {
	args := m.Called(ctx, section, data)
	return args.Error(0)
}

type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) GetRanking(ctx context.Context, timeframe, level string, offset, limit int) ([]models.RankingRow, error) {
	args := m.Called(ctx, timeframe, level, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RankingRow), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(username, password string) error {
	args := m.Called(username, password)
	return args.Error(0)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type testEnv struct {
	e           *echo.Echo
	routers     *Routers
	gallery     *MockGalleryService
	events      *MockEventService
	content     *MockContentService
	leaderboard *MockLeaderboardService
	auth        *MockAuthService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		gallery:     new(MockGalleryService),
		events:      new(MockEventService),
		content:     new(MockContentService),
		leaderboard: new(MockLeaderboardService),
		auth:        new(MockAuthService),
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.routers = NewRouter(log, env.gallery, env.events, env.content, env.leaderboard, env.auth)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test"))))

	e.GET("/api/v1/gallery", env.routers.GetGallery)
	e.POST("/api/v1/gallery/upload", env.routers.UploadGallery)
	e.DELETE("/api/v1/gallery", env.routers.DeleteGalleryItem)
	e.GET("/api/v1/events", env.routers.GetEvents)
	e.POST("/api/v1/events", env.routers.CreateEvent)
	e.DELETE("/api/v1/events", env.routers.DeleteEvent)
	e.GET("/api/v1/leaderboard", env.routers.GetLeaderboard)
	e.GET("/api/v1/content", env.routers.GetContent)
	e.POST("/api/v1/admin/content", env.routers.SaveContent)
	e.GET("/api/v1/admin/dashboard", env.routers.GetDashboard)
	e.POST("/api/v1/admin/login", env.routers.AdminLogin)
	e.POST("/api/v1/admin/logout", env.routers.AdminLogout)

	env.e = e

	return env
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestGetGallery(t *testing.T) {
	env := newTestEnv()

	env.gallery.On("List", mock.Anything, "Race Day", 2, 10).
		Return(dto.GalleryListResult{
			Items: []models.GalleryItem{{Caption: "pit stop"}},
			Meta:  dto.PageMeta{Page: 2, Limit: 10, Total: 11, TotalPages: 2},
		}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery?category=Race+Day&page=2&limit=10", nil)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), "pit stop")

	env.gallery.AssertExpectations(t)
}

func TestGetGallery_StoreFailure(t *testing.T) {
	env := newTestEnv()

	env.gallery.On("List", mock.Anything, "", 0, 0).
		Return(dto.GalleryListResult{}, errors.New("pg: connection refused")).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/gallery", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	// детали инфраструктурной ошибки наружу не уходят
	assert.NotContains(t, resp.Message, "pg:")
}

func multipartUpload(t *testing.T, category string, files map[string][]byte, captions map[int]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	require.NoError(t, w.WriteField("category", category))
	for name, data := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	for i, caption := range captions {
		require.NoError(t, w.WriteField(fmt.Sprintf("caption_%d", i), caption))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadGallery(t *testing.T) {
	env := newTestEnv()

	env.gallery.On("UploadBatch", mock.Anything, mock.MatchedBy(func(input dto.BatchUploadInput) bool {
		return input.Category == "Race Day" &&
			len(input.Files) == 1 &&
			input.Files[0].Caption == "start line"
	})).Return(dto.BatchUploadResult{
		Items:   []models.GalleryItem{{Caption: "start line"}},
		Created: 1,
	}, nil).Once()

	req := multipartUpload(t, "Race Day",
		map[string][]byte{"a.png": []byte("fake-bytes")},
		map[int]string{0: "start line"},
	)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Uploaded 1 of 1", resp.Message)

	env.gallery.AssertExpectations(t)
}

func TestUploadGallery_ValidationError(t *testing.T) {
	env := newTestEnv()

	env.gallery.On("UploadBatch", mock.Anything, mock.Anything).
		Return(dto.BatchUploadResult{}, models.NewValidationError("category is required")).Once()

	req := multipartUpload(t, "", map[string][]byte{"a.png": []byte("x")}, nil)
	rec := env.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "category is required")
}

func TestDeleteGalleryItem(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()

	env.gallery.On("Delete", mock.Anything, id).
		Return(models.GalleryItem{ID: id, IsDeleted: true}, nil).Once()

	body := strings.NewReader(`{"id": "` + id.String() + `"}`)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/gallery", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	env.gallery.AssertExpectations(t)
}

func TestDeleteGalleryItem_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mockErr  error
		wantCode int
	}{
		{
			name:     "not a uuid",
			body:     `{"id": "42"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing id",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown id",
			body:     `{"id": "` + uuid.NewString() + `"}`,
			mockErr:  models.ErrNotFound,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			if tt.mockErr != nil {
				env.gallery.On("Delete", mock.Anything, mock.Anything).
					Return(models.GalleryItem{}, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/gallery", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

			rec := env.do(req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCreateEvent(t *testing.T) {
	env := newTestEnv()

	env.events.On("Create", mock.Anything, mock.Anything).
		Return(models.Event{Title: "Night Race"}, nil).Once()

	body := strings.NewReader(`{"title": "Night Race", "startDate": "2026-09-12", "endDate": "2026-09-13"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateEvent_Validation(t *testing.T) {
	env := newTestEnv()

	// required-поля отлавливаются ещё до сервиса
	body := strings.NewReader(`{"title": "Night Race"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env.events.AssertNotCalled(t, "Create")
}

func TestDeleteEvent_NotFound(t *testing.T) {
	env := newTestEnv()

	env.events.On("Delete", mock.Anything, mock.Anything).Return(models.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/events?id="+uuid.NewString(), nil)
	rec := env.do(req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLeaderboard(t *testing.T) {
	env := newTestEnv()

	rows := []models.RankingRow{{Position: 1, Name: "A. Fast", Time: "00:39.512"}}
	env.leaderboard.On("GetRanking", mock.Anything, "week", "intermediate", 0, 20).
		Return(rows, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?timeframe=week&level=intermediate&limit=20", nil)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), "A. Fast")
}

func TestGetLeaderboard_BadUpstream(t *testing.T) {
	env := newTestEnv()

	env.leaderboard.On("GetRanking", mock.Anything, "", "", 0, 0).
		Return(nil, racefacer.ErrBadPayload).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetContent(t *testing.T) {
	env := newTestEnv()

	env.content.On("Get", mock.Anything, "about").
		Return(models.ContentSection{Section: models.SectionAbout}, nil).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/content?section=about", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetContent_UnknownSection(t *testing.T) {
	env := newTestEnv()

	env.content.On("Get", mock.Anything, "pricing").
		Return(models.ContentSection{}, models.NewValidationError("unknown section %q", "pricing")).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/content?section=pricing", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveContent(t *testing.T) {
	env := newTestEnv()

	env.content.On("Save", mock.Anything, "contact", map[string]interface{}{"phone": "+371 20000000"}).
		Return(nil).Once()

	body := strings.NewReader(`{"section": "contact", "data": {"phone": "+371 20000000"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/content", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	env.content.AssertExpectations(t)
}

func TestGetDashboard(t *testing.T) {
	env := newTestEnv()

	env.gallery.On("Stats", mock.Anything).
		Return(models.GalleryStats{Total: 12, Published: 10}, nil).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Contains(t, string(resp.Data), `"published":10`)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv()

	env.auth.On("Login", "admin", "pit-lane-42").Return(nil).Once()

	body := strings.NewReader(`{"username": "admin", "password": "pit-lane-42"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))
}

func TestAdminLogin_WrongCredentials(t *testing.T) {
	env := newTestEnv()

	env.auth.On("Login", "admin", "wrong").Return(adminauth.ErrInvalidCredentials).Once()

	body := strings.NewReader(`{"username": "admin", "password": "wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := env.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
