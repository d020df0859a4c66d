package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"drift_inc/internal/domain/models"
	"drift_inc/internal/lib/imageproc"
	"drift_inc/internal/lib/logger/sl"
	"drift_inc/internal/metrics"
	"drift_inc/internal/repository"
	"drift_inc/internal/storage/objectstore"
	"drift_inc/internal/transport/http/dto"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// одновременно нормализуется и загружается не больше такого числа файлов
const maxConcurrentUploads = 4

type GalleryService struct {
	log   *slog.Logger
	repo  repository.GalleryRepository
	media objectstore.MediaStorage
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, media objectstore.MediaStorage) *GalleryService {
	return &GalleryService{
		log:   log,
		repo:  repo,
		media: media,
	}
}

// UploadBatch принимает пакет файлов одной категории: каждый файл
// нормализуется, загружается в медиахранилище и записывается в каталог.
// Пакет выполняется с частичным успехом: сбой одного файла логируется и
// пропускается, результат содержит созданные записи в порядке входного
// списка. Ноль успешных файлов считается ошибкой всего пакета.
func (s *GalleryService) UploadBatch(ctx context.Context, input dto.BatchUploadInput) (dto.BatchUploadResult, error) {
	const op = "service.GalleryService.UploadBatch"
	log := s.log.With(
		slog.String("op", op),
		slog.String("category", input.Category),
		slog.Int("files", len(input.Files)),
	)

	if input.Category == "" {
		return dto.BatchUploadResult{}, models.NewValidationError("category is required")
	}
	if !models.IsValidCategory(input.Category) {
		return dto.BatchUploadResult{}, models.NewValidationError("unknown category %q", input.Category)
	}
	if len(input.Files) == 0 {
		return dto.BatchUploadResult{}, models.NewValidationError("no files provided")
	}

	log.Info("starting batch upload")

	var mu sync.Mutex
	created := make([]*models.GalleryItem, len(input.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for i, file := range input.Files {
		i, file := i, file

		g.Go(func() error {
			item, err := s.uploadOne(gctx, file, models.GalleryCategory(input.Category))
			if err != nil {
				// сбой одного файла не валит пакет
				log.Warn("file skipped",
					slog.String("file", file.Name),
					sl.Err(err),
				)
				metrics.MediaUploadsTotal.WithLabelValues("skipped").Inc()
				return nil
			}

			metrics.MediaUploadsTotal.WithLabelValues("created").Inc()

			mu.Lock()
			created[i] = &item
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("batch upload aborted", sl.Err(err))
		return dto.BatchUploadResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result := dto.BatchUploadResult{Items: make([]models.GalleryItem, 0, len(input.Files))}
	for _, item := range created {
		if item != nil {
			result.Items = append(result.Items, *item)
		}
	}
	result.Created = len(result.Items)

	if result.Created == 0 {
		log.Error("no files could be uploaded")
		return dto.BatchUploadResult{}, models.NewValidationError("upload failed")
	}

	log.Info("batch upload finished",
		slog.Int("created", result.Created),
		slog.Int("skipped", len(input.Files)-result.Created),
	)

	return result, nil
}

func (s *GalleryService) uploadOne(ctx context.Context, file dto.UploadFile, category models.GalleryCategory) (models.GalleryItem, error) {
	normalized, err := imageproc.Normalize(file.Data)
	if err != nil {
		return models.GalleryItem{}, err
	}

	id := uuid.New()
	key := fmt.Sprintf("gallery/%s%s", id, imageproc.Ext)

	url, err := s.media.Upload(ctx, key, normalized, imageproc.ContentType)
	if err != nil {
		return models.GalleryItem{}, fmt.Errorf("upload %s: %w", key, err)
	}

	item := models.GalleryItem{
		ID:         id,
		URL:        url,
		Category:   category,
		Caption:    file.Caption,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.repo.InsertItem(ctx, item); err != nil {
		// объект уже в хранилище, пытаемся не оставлять сироту
		if rmErr := s.media.RemoveByURL(ctx, url); rmErr != nil {
			s.log.Warn("failed to clean up orphaned object", slog.String("url", url), sl.Err(rmErr))
		}
		return models.GalleryItem{}, fmt.Errorf("insert %s: %w", id, err)
	}

	return item, nil
}

// List возвращает страницу каталога: неудалённые записи категории, новые
// первыми, плюс сводная статистика и метаданные пагинации. Пустая категория
// или "all" означает весь каталог, категория вне справочника даёт пустую
// страницу без ошибки.
func (s *GalleryService) List(ctx context.Context, category string, page, limit int) (dto.GalleryListResult, error) {
	const op = "service.GalleryService.List"
	log := s.log.With(
		slog.String("op", op),
		slog.String("category", category),
	)

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 24
	}
	if limit > 200 {
		limit = 200
	}

	if models.IsAllCategories(category) {
		category = ""
	} else if !models.IsValidCategory(category) {
		log.Info("unknown category requested, returning empty page")
		return dto.GalleryListResult{
			Items: []models.GalleryItem{},
			Meta:  dto.PageMeta{Page: page, Limit: limit},
		}, nil
	}

	items, total, err := s.repo.ListItems(ctx, category, page, limit)
	if err != nil {
		log.Error("failed to list items", sl.Err(err))
		return dto.GalleryListResult{}, fmt.Errorf("%s: %w", op, err)
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		log.Error("failed to load stats", sl.Err(err))
		return dto.GalleryListResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return dto.GalleryListResult{
		Items: dedupByID(items),
		Stats: stats,
		Meta: dto.PageMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// Delete помечает запись удалённой и best-effort убирает объект из
// медиахранилища: каталог первичен, сбой удаления объекта только логируется
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) (models.GalleryItem, error) {
	const op = "service.GalleryService.Delete"
	log := s.log.With(
		slog.String("op", op),
		slog.String("item_id", id.String()),
	)

	item, err := s.repo.SoftDeleteItem(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("item not found")
			return models.GalleryItem{}, models.ErrNotFound
		}
		log.Error("failed to soft delete item", sl.Err(err))
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.media.RemoveByURL(ctx, item.URL); err != nil {
		log.Warn("failed to remove media object", slog.String("url", item.URL), sl.Err(err))
	}

	log.Info("item deleted")

	return item, nil
}

// Stats сводка каталога для админской панели
func (s *GalleryService) Stats(ctx context.Context) (models.GalleryStats, error) {
	const op = "service.GalleryService.Stats"

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.log.Error("failed to load stats", slog.String("op", op), sl.Err(err))
		return models.GalleryStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

// dedupByID подавляет дубликаты id внутри одной страницы, первая запись
// выигрывает
func dedupByID(items []models.GalleryItem) []models.GalleryItem {
	seen := make(map[uuid.UUID]struct{}, len(items))
	out := make([]models.GalleryItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
