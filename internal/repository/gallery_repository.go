package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drift_inc/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const galleryTable = "gallery_items"

type GalleryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// InsertItem сохраняет новый элемент галереи
func (r *GalleryRepo) InsertItem(ctx context.Context, item models.GalleryItem) error {
	const op = "repository.GalleryRepo.InsertItem"

	query, args, err := r.sb.Insert(galleryTable).
		Columns("id", "url", "category", "caption", "uploaded_at", "is_deleted").
		Values(item.ID, item.URL, item.Category, item.Caption, item.UploadedAt, item.IsDeleted).
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

// ListItems возвращает страницу неудалённых элементов и общее число совпадений.
// Сортировка uploaded_at DESC, id DESC: вторичный ключ стабилизирует порядок
// при равных временах загрузки.
func (r *GalleryRepo) ListItems(ctx context.Context, category string, page, perPage int) ([]models.GalleryItem, int, error) {
	const op = "repository.GalleryRepo.ListItems"

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 24
	}

	where := sq.And{sq.Eq{"is_deleted": false}}
	if !models.IsAllCategories(category) {
		where = append(where, sq.Eq{"category": category})
	}

	total, err := r.countItems(ctx, where)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select("id", "url", "category", "caption", "uploaded_at", "is_deleted", "deleted_at").
		From(galleryTable).
		Where(where).
		OrderBy("uploaded_at DESC", "id DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.GalleryItem
	for rows.Next() {
		var item models.GalleryItem
		err := rows.Scan(
			&item.ID,
			&item.URL,
			&item.Category,
			&item.Caption,
			&item.UploadedAt,
			&item.IsDeleted,
			&item.DeletedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}

	return items, total, nil
}

// GetItemByID возвращает элемент по ID, включая удалённые
func (r *GalleryRepo) GetItemByID(ctx context.Context, id uuid.UUID) (models.GalleryItem, error) {
	const op = "repository.GalleryRepo.GetItemByID"

	query, args, err := r.sb.Select("id", "url", "category", "caption", "uploaded_at", "is_deleted", "deleted_at").
		From(galleryTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	var item models.GalleryItem
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&item.ID,
		&item.URL,
		&item.Category,
		&item.Caption,
		&item.UploadedAt,
		&item.IsDeleted,
		&item.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.GalleryItem{}, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// SoftDeleteItem помечает элемент удалённым и возвращает его прежнее состояние.
// Переход односторонний: is_deleted обратно не сбрасывается.
func (r *GalleryRepo) SoftDeleteItem(ctx context.Context, id uuid.UUID) (models.GalleryItem, error) {
	const op = "repository.GalleryRepo.SoftDeleteItem"

	query, args, err := r.sb.Update(galleryTable).
		Set("is_deleted", true).
		Set("deleted_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, url, category, caption, uploaded_at, is_deleted, deleted_at").
		ToSql()
	if err != nil {
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	var item models.GalleryItem
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&item.ID,
		&item.URL,
		&item.Category,
		&item.Caption,
		&item.UploadedAt,
		&item.IsDeleted,
		&item.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.GalleryItem{}, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// LastUpload возвращает время последней неудалённой загрузки, nil если каталог пуст
func (r *GalleryRepo) LastUpload(ctx context.Context) (*time.Time, error) {
	const op = "repository.GalleryRepo.LastUpload"

	query, args, err := r.sb.Select("MAX(uploaded_at)").
		From(galleryTable).
		Where(sq.Eq{"is_deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var last *time.Time
	err = r.db.QueryRow(ctx, query, args...).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return last, nil
}

// Stats возвращает сводку для админ-панели: всего записей, опубликовано,
// время последней загрузки
func (r *GalleryRepo) Stats(ctx context.Context) (models.GalleryStats, error) {
	const op = "repository.GalleryRepo.Stats"

	query, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE NOT is_deleted)",
		"MAX(uploaded_at) FILTER (WHERE NOT is_deleted)",
	).From(galleryTable).ToSql()
	if err != nil {
		return models.GalleryStats{}, fmt.Errorf("%s: %w", op, err)
	}

	var stats models.GalleryStats
	err = r.db.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Published, &stats.LastUpload)
	if err != nil {
		return models.GalleryStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

func (r *GalleryRepo) countItems(ctx context.Context, where sq.And) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From(galleryTable).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error build query: %w", err)
	}

	var count int
	err = r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("error execute query: %w", err)
	}

	return count, nil
}
