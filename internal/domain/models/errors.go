package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возвращается, когда идентификатор не находит запись в каталоге
	ErrNotFound = errors.New("record not found")

	// ErrUnsupportedMedia возвращается, когда файл не декодируется как изображение
	ErrUnsupportedMedia = errors.New("unsupported media")

	// ErrRankingUnavailable возвращается, когда внешний рейтинг недоступен
	ErrRankingUnavailable = errors.New("external ranking unavailable")
)

// ValidationError ошибка валидации входных данных (HTTP 400)
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
