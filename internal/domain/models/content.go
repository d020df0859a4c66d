package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ContentSection статический раздел сайта, редактируемый из админки
type ContentSection struct {
	Section   Section     `json:"section" db:"section"`
	Data      SectionData `json:"data" db:"data"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

// Section идентификатор раздела из фиксированного набора
type Section string

const (
	SectionAbout   Section = "about"
	SectionGallery Section = "gallery"
	SectionContact Section = "contact"
)

// IsValidSection проверяет, входит ли раздел в фиксированный набор
func IsValidSection(s string) bool {
	switch Section(s) {
	case SectionAbout, SectionGallery, SectionContact:
		return true
	}
	return false
}

// SectionData произвольное содержимое раздела, хранится в JSONB
type SectionData map[string]interface{}

// Value реализует интерфейс driver.Valuer для сериализации в JSONB
func (d SectionData) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	return json.Marshal(d)
}

// Scan реализует интерфейс sql.Scanner для десериализации из JSONB
func (d *SectionData) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported section data type %T", value)
	}
}
