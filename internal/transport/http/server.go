package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"drift_inc/internal/domain/models"
	"drift_inc/internal/lib/logger/sl"
	"drift_inc/internal/racefacer"
	"drift_inc/internal/services/adminauth"
	"drift_inc/internal/transport/http/dto"
	"drift_inc/internal/transport/http/dto/request"
	"drift_inc/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	SessionName = "session"
	sessionTTL  = 7 * 24 * 60 * 60
)

type GalleryService interface {
	UploadBatch(ctx context.Context, input dto.BatchUploadInput) (dto.BatchUploadResult, error)
	List(ctx context.Context, category string, page, limit int) (dto.GalleryListResult, error)
	Delete(ctx context.Context, id uuid.UUID) (models.GalleryItem, error)
	Stats(ctx context.Context) (models.GalleryStats, error)
}

type EventService interface {
	Create(ctx context.Context, req dto.CreateEventRequest) (models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContentService interface {
	Get(ctx context.Context, section string) (models.ContentSection, error)
	Save(ctx context.Context, section string, data map[string]interface{}) error
}

type LeaderboardService interface {
	GetRanking(ctx context.Context, timeframe, level string, offset, limit int) ([]models.RankingRow, error)
}

type AuthService interface {
	Login(username, password string) error
}

type Routers struct {
	log                *slog.Logger
	GalleryService     GalleryService
	EventService       EventService
	ContentService     ContentService
	LeaderboardService LeaderboardService
	AuthService        AuthService
}

func NewRouter(
	log *slog.Logger,
	galleryService GalleryService,
	eventService EventService,
	contentService ContentService,
	leaderboardService LeaderboardService,
	authService AuthService,
) *Routers {
	return &Routers{
		log:                log,
		GalleryService:     galleryService,
		EventService:       eventService,
		ContentService:     contentService,
		LeaderboardService: leaderboardService,
		AuthService:        authService,
	}
}

// respondError переводит ошибку сервиса в статус и конверт ответа.
// Детали инфраструктурных ошибок наружу не уходят.
func (r *Routers) respondError(c echo.Context, op string, err error) error {
	switch {
	case models.IsValidationError(err):
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, response.Error("not found"))
	case errors.Is(err, racefacer.ErrBadPayload):
		return c.JSON(http.StatusBadGateway, response.Error("upstream returned malformed data"))
	default:
		r.log.Error("request failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
}

// GetGallery список записей галереи с фильтром по категории и пагинацией
func (r *Routers) GetGallery(c echo.Context) error {
	const op = "http.routers.GetGallery"

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := r.GalleryService.List(c.Request().Context(), c.QueryParam("category"), page, limit)
	if err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(result))
}

// UploadGallery пакетная загрузка: multipart с files[], category и
// подписями caption_<i> по позиции файла
func (r *Routers) UploadGallery(c echo.Context) error {
	const op = "http.routers.UploadGallery"

	log := r.log.With(slog.String("op", op))

	form, err := c.MultipartForm()
	if err != nil {
		log.Warn("bad multipart request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	files := form.File["files"]

	input := dto.BatchUploadInput{
		Category: c.FormValue("category"),
		Files:    make([]dto.UploadFile, 0, len(files)),
	}

	for i, fh := range files {
		src, err := fh.Open()
		if err != nil {
			log.Warn("cannot open uploaded file", slog.String("file", fh.Filename), sl.Err(err))
			continue
		}

		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			log.Warn("cannot read uploaded file", slog.String("file", fh.Filename), sl.Err(err))
			continue
		}

		input.Files = append(input.Files, dto.UploadFile{
			Name:    fh.Filename,
			Data:    data,
			Caption: c.FormValue(fmt.Sprintf("caption_%d", i)),
		})
	}

	result, err := r.GalleryService.UploadBatch(c.Request().Context(), input)
	if err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Response{
		Success: true,
		Data:    result,
		Message: fmt.Sprintf("Uploaded %d of %d", result.Created, len(files)),
	})
}

// DeleteGalleryItem мягкое удаление записи по id из тела запроса
func (r *Routers) DeleteGalleryItem(c echo.Context) error {
	const op = "http.routers.DeleteGalleryItem"

	var req struct {
		ID string `json:"id" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("id is required"))
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("id is not a valid UUID"))
	}

	item, err := r.GalleryService.Delete(c.Request().Context(), id)
	if err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(item))
}

// GetEvents список анонсов, ближайшие первыми
func (r *Routers) GetEvents(c echo.Context) error {
	const op = "http.routers.GetEvents"

	events, err := r.EventService.List(c.Request().Context())
	if err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(events))
}

// CreateEvent создание анонса мероприятия
func (r *Routers) CreateEvent(c echo.Context) error {
	const op = "http.routers.CreateEvent"

	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	}

	event, err := r.EventService.Create(c.Request().Context(), req)
	if err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.OK(event))
}

// DeleteEvent мягкое удаление анонса, id в query-параметре
func (r *Routers) DeleteEvent(c echo.Context) error {
	const op = "http.routers.DeleteEvent"

	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("id is not a valid UUID"))
	}

	if err := r.EventService.Delete(c.Request().Context(), id); err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(map[string]string{"id": id.String()}))
}

// GetLeaderboard рейтинг кругов с внешнего сервиса
func (r *Routers) GetLeaderboard(c echo.Context) error {
	const op = "http.routers.GetLeaderboard"

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	rows, err := r.LeaderboardService.GetRanking(
		c.Request().Context(),
		c.QueryParam("timeframe"),
		c.QueryParam("level"),
		offset,
		limit,
	)
	if err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(rows))
}

// GetContent публичное чтение секции контента
func (r *Routers) GetContent(c echo.Context) error {
	const op = "http.routers.GetContent"

	content, err := r.ContentService.Get(c.Request().Context(), c.QueryParam("section"))
	if err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(content))
}

// SaveContent админское сохранение секции контента
func (r *Routers) SaveContent(c echo.Context) error {
	const op = "http.routers.SaveContent"

	var req dto.SaveContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	}

	if err := r.ContentService.Save(c.Request().Context(), req.Section, req.Data); err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(map[string]string{"section": req.Section}))
}

// GetDashboard сводка каталога для админской панели
func (r *Routers) GetDashboard(c echo.Context) error {
	const op = "http.routers.GetDashboard"

	stats, err := r.GalleryService.Stats(c.Request().Context())
	if err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(stats))
}

// AdminLogin вход в админку: проверка учётки и установка сессионной cookie
func (r *Routers) AdminLogin(c echo.Context) error {
	const op = "http.routers.AdminLogin"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request")
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := r.AuthService.Login(req.Username, req.Password); err != nil {
		if errors.Is(err, adminauth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		return r.respondError(c, op, err)
	}

	sess, _ := session.Get(SessionName, c)
	sess.Options.MaxAge = sessionTTL
	sess.Options.HttpOnly = true
	sess.Values["admin"] = true
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return r.respondError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.OK(map[string]string{"username": req.Username}))
}

// AdminLogout сброс админской сессии
func (r *Routers) AdminLogout(c echo.Context) error {
	sess, _ := session.Get(SessionName, c)
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	sess.Save(c.Request(), c.Response())

	return c.JSON(http.StatusOK, response.OK(nil))
}
