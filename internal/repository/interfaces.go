package repository

import (
	"context"
	"time"

	"drift_inc/internal/domain/models"

	"github.com/google/uuid"
)

type GalleryRepository interface {
	InsertItem(ctx context.Context, item models.GalleryItem) error
	ListItems(ctx context.Context, category string, page, perPage int) ([]models.GalleryItem, int, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (models.GalleryItem, error)
	SoftDeleteItem(ctx context.Context, id uuid.UUID) (models.GalleryItem, error)
	LastUpload(ctx context.Context) (*time.Time, error)
	Stats(ctx context.Context) (models.GalleryStats, error)
}

type EventRepository interface {
	InsertEvent(ctx context.Context, event models.Event) error
	ListEvents(ctx context.Context) ([]models.Event, error)
	SoftDeleteEvent(ctx context.Context, id uuid.UUID) error
}

type ContentRepository interface {
	GetSection(ctx context.Context, section models.Section) (models.ContentSection, error)
	UpsertSection(ctx context.Context, section models.Section, data models.SectionData) error
}
