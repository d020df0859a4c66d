package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	Gallery GalleryRepository
	Events  EventRepository
	Content ContentRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		Gallery: NewGalleryRepo(db),
		Events:  NewEventRepo(db),
		Content: NewContentRepo(db),
	}
}
