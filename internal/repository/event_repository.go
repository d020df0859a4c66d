package repository

import (
	"context"
	"errors"
	"fmt"

	"drift_inc/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const eventTable = "events"

type EventRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewEventRepo(db *pgxpool.Pool) *EventRepo {
	return &EventRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// InsertEvent сохраняет новое событие
func (r *EventRepo) InsertEvent(ctx context.Context, event models.Event) error {
	const op = "repository.EventRepo.InsertEvent"

	query, args, err := r.sb.Insert(eventTable).
		Columns("id", "title", "description", "start_date", "end_date", "attachments", "created_at", "is_deleted").
		Values(
			event.ID,
			event.Title,
			event.Description,
			event.StartDate,
			event.EndDate,
			event.Attachments,
			event.CreatedAt,
			event.IsDeleted,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListEvents возвращает неудалённые события по возрастанию даты начала
func (r *EventRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	const op = "repository.EventRepo.ListEvents"

	query, args, err := r.sb.Select("id", "title", "description", "start_date", "end_date", "attachments", "created_at", "is_deleted", "deleted_at").
		From(eventTable).
		Where(sq.Eq{"is_deleted": false}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.StartDate,
			&event.EndDate,
			&event.Attachments,
			&event.CreatedAt,
			&event.IsDeleted,
			&event.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = append(events, event)
	}

	return events, nil
}

// SoftDeleteEvent помечает событие удалённым
func (r *EventRepo) SoftDeleteEvent(ctx context.Context, id uuid.UUID) error {
	const op = "repository.EventRepo.SoftDeleteEvent"

	query, args, err := r.sb.Update(eventTable).
		Set("is_deleted", true).
		Set("deleted_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var deletedID uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
