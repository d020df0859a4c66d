package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaKind тип вложения события
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Attachment вложение события: публичный URL и тип медиа
type Attachment struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// Attachments упорядоченный список вложений, хранится в JSONB
type Attachments []Attachment

// Value реализует интерфейс driver.Valuer для сериализации в JSONB
func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan реализует интерфейс sql.Scanner для десериализации из JSONB
func (a *Attachments) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported attachments type %T", value)
	}
}

// Event представляет анонс мероприятия с вложениями
type Event struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description,omitempty" db:"description"`
	StartDate   time.Time   `json:"startDate" db:"start_date"`
	EndDate     time.Time   `json:"endDate" db:"end_date"`
	Attachments Attachments `json:"attachments" db:"attachments"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	IsDeleted   bool        `json:"isDeleted" db:"is_deleted"`
	DeletedAt   *time.Time  `json:"deletedAt,omitempty" db:"deleted_at"`
}

// Validate проверяет обязательные поля и порядок дат
func (e *Event) Validate() error {
	var validationErrors []string

	if strings.TrimSpace(e.Title) == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if e.StartDate.IsZero() {
		validationErrors = append(validationErrors, "startDate is required")
	}
	if e.EndDate.IsZero() {
		validationErrors = append(validationErrors, "endDate is required")
	}
	if !e.StartDate.IsZero() && !e.EndDate.IsZero() && e.StartDate.After(e.EndDate) {
		validationErrors = append(validationErrors, "startDate after endDate")
	}

	for i, att := range e.Attachments {
		if att.URL == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("attachment %d: url is required", i))
		}
		if att.Kind != MediaKindImage && att.Kind != MediaKindVideo {
			validationErrors = append(validationErrors, fmt.Sprintf("attachment %d: kind must be image or video", i))
		}
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Msg: strings.Join(validationErrors, "; ")}
	}

	return nil
}
