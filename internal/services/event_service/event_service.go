package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"drift_inc/internal/domain/models"
	"drift_inc/internal/lib/logger/sl"
	"drift_inc/internal/repository"
	"drift_inc/internal/transport/http/dto"

	"github.com/google/uuid"
)

type EventService struct {
	log  *slog.Logger
	repo repository.EventRepository
}

func NewEventService(log *slog.Logger, repo repository.EventRepository) *EventService {
	return &EventService{
		log:  log,
		repo: repo,
	}
}

// Create создаёт анонс мероприятия
func (s *EventService) Create(ctx context.Context, req dto.CreateEventRequest) (models.Event, error) {
	const op = "service.EventService.Create"
	log := s.log.With(
		slog.String("op", op),
		slog.String("title", req.Title),
	)

	startDate, err := parseEventDate(req.StartDate)
	if err != nil {
		return models.Event{}, models.NewValidationError("startDate: %s", err)
	}
	endDate, err := parseEventDate(req.EndDate)
	if err != nil {
		return models.Event{}, models.NewValidationError("endDate: %s", err)
	}

	event := models.Event{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Attachments: req.ToAttachments(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := event.Validate(); err != nil {
		log.Info("event rejected", sl.Err(err))
		return models.Event{}, err
	}

	if err := s.repo.InsertEvent(ctx, event); err != nil {
		log.Error("failed to insert event", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event created", slog.String("event_id", event.ID.String()))

	return event, nil
}

// List возвращает неудалённые мероприятия, ближайшие первыми
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	const op = "service.EventService.List"

	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		s.log.Error("failed to list events", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

// Delete помечает мероприятие удалённым
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "service.EventService.Delete"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", id.String()),
	)

	if err := s.repo.SoftDeleteEvent(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("event not found")
			return models.ErrNotFound
		}
		log.Error("failed to delete event", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event deleted")

	return nil
}

// parseEventDate принимает дату в формате календаря админки либо RFC3339
func parseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("is required")
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
