package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"drift_inc/internal/domain/models"
	"drift_inc/internal/lib/logger/sl"
	"drift_inc/internal/repository"
)

// ContentService хранит редактируемые секции публичных страниц
type ContentService struct {
	log  *slog.Logger
	repo repository.ContentRepository
}

func NewContentService(log *slog.Logger, repo repository.ContentRepository) *ContentService {
	return &ContentService{
		log:  log,
		repo: repo,
	}
}

func (s *ContentService) Get(ctx context.Context, section string) (models.ContentSection, error) {
	const op = "service.ContentService.Get"
	log := s.log.With(
		slog.String("op", op),
		slog.String("section", section),
	)

	if !models.IsValidSection(section) {
		return models.ContentSection{}, models.NewValidationError("unknown section %q", section)
	}

	content, err := s.repo.GetSection(ctx, models.Section(section))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("section has no saved content")
			return models.ContentSection{}, models.ErrNotFound
		}
		log.Error("failed to load section", sl.Err(err))
		return models.ContentSection{}, fmt.Errorf("%s: %w", op, err)
	}

	return content, nil
}

func (s *ContentService) Save(ctx context.Context, section string, data map[string]interface{}) error {
	const op = "service.ContentService.Save"
	log := s.log.With(
		slog.String("op", op),
		slog.String("section", section),
	)

	if !models.IsValidSection(section) {
		return models.NewValidationError("unknown section %q", section)
	}
	if data == nil {
		return models.NewValidationError("data is required")
	}

	if err := s.repo.UpsertSection(ctx, models.Section(section), models.SectionData(data)); err != nil {
		log.Error("failed to save section", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("section saved")

	return nil
}
