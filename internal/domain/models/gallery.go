package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GalleryCategory категория элемента галереи из фиксированного набора
type GalleryCategory string

const (
	CategoryRaceDay         GalleryCategory = "Race Day"
	CategoryTraining        GalleryCategory = "Training"
	CategoryEvent           GalleryCategory = "Event"
	CategoryHighlight       GalleryCategory = "Highlight"
	CategoryCustomerMoments GalleryCategory = "Customer Moments"
	CategoryAnnouncement    GalleryCategory = "Announcement"
)

// GalleryCategories полный набор допустимых категорий
var GalleryCategories = []GalleryCategory{
	CategoryRaceDay,
	CategoryTraining,
	CategoryEvent,
	CategoryHighlight,
	CategoryCustomerMoments,
	CategoryAnnouncement,
}

// IsValidCategory проверяет, входит ли категория в фиксированный набор
func IsValidCategory(c string) bool {
	for _, known := range GalleryCategories {
		if string(known) == c {
			return true
		}
	}
	return false
}

// IsAllCategories пустой фильтр или "all" означают все категории
func IsAllCategories(c string) bool {
	return strings.TrimSpace(c) == "" || strings.EqualFold(strings.TrimSpace(c), "all")
}

// GalleryItem представляет сохранённый медиафайл галереи
type GalleryItem struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	URL        string          `json:"url" db:"url"`
	Category   GalleryCategory `json:"category" db:"category"`
	Caption    string          `json:"caption" db:"caption"`
	UploadedAt time.Time       `json:"uploadedAt" db:"uploaded_at"`
	IsDeleted  bool            `json:"isDeleted" db:"is_deleted"`
	DeletedAt  *time.Time      `json:"deletedAt,omitempty" db:"deleted_at"`
}

// GalleryStats агрегированная статистика каталога галереи
type GalleryStats struct {
	Total      int        `json:"total"`
	Published  int        `json:"published"`
	LastUpload *time.Time `json:"lastUpload"`
}
