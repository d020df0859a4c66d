package repository

import (
	"context"
	"errors"
	"fmt"

	"drift_inc/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const contentTable = "content_sections"

type ContentRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewContentRepo(db *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetSection возвращает содержимое статического раздела
func (r *ContentRepo) GetSection(ctx context.Context, section models.Section) (models.ContentSection, error) {
	const op = "repository.ContentRepo.GetSection"

	query, args, err := r.sb.Select("section", "data", "updated_at").
		From(contentTable).
		Where(sq.Eq{"section": section}).
		ToSql()
	if err != nil {
		return models.ContentSection{}, fmt.Errorf("%s: %w", op, err)
	}

	var content models.ContentSection
	err = r.db.QueryRow(ctx, query, args...).Scan(&content.Section, &content.Data, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ContentSection{}, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return models.ContentSection{}, fmt.Errorf("%s: %w", op, err)
	}

	return content, nil
}

// UpsertSection сохраняет содержимое раздела, создавая запись при отсутствии
func (r *ContentRepo) UpsertSection(ctx context.Context, section models.Section, data models.SectionData) error {
	const op = "repository.ContentRepo.UpsertSection"

	query, args, err := r.sb.Insert(contentTable).
		Columns("section", "data", "updated_at").
		Values(section, data, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (section) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()").
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
