package dto

import (
	"drift_inc/internal/domain/models"
)

// UploadFile один файл пакетной загрузки до нормализации
type UploadFile struct {
	Name    string
	Data    []byte
	Caption string
}

// BatchUploadInput пакет файлов одной категории
type BatchUploadInput struct {
	Category string
	Files    []UploadFile
}

// BatchUploadResult созданные записи в порядке входного списка
type BatchUploadResult struct {
	Items   []models.GalleryItem `json:"items"`
	Created int                  `json:"created"`
}

// PageMeta метаданные пагинации списка
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// GalleryListResult страница каталога со статистикой
type GalleryListResult struct {
	Items []models.GalleryItem `json:"items"`
	Stats models.GalleryStats  `json:"stats"`
	Meta  PageMeta             `json:"meta"`
}
