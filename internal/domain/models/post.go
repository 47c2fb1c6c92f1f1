package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout формат даты поста, приходящий из формы (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Post запись блога; соответствует таблице post
type Post struct {
	ID     int64     `db:"id" json:"id"`
	Title  string    `db:"titulo" json:"title"`
	Body   string    `db:"texto" json:"body"`
	Date   time.Time `db:"data" json:"date"`
	Tag    string    `db:"tag" json:"tag,omitempty"`
	Photos []Photo   `json:"photos"`
}

// ParsePostDate разбирает дату из формы; ошибка всегда *ValidationError
func ParsePostDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &ValidationError{
			Errors: []string{fmt.Sprintf("data: %q is not a valid date, expected YYYY-MM-DD", value)},
		}
	}

	return date, nil
}

// Validate проверяет обязательные поля поста перед записью в хранилище
func (p *Post) Validate() error {
	var validationErrors []string

	if strings.TrimSpace(p.Title) == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if utf8.RuneCountInString(p.Title) > 100 {
		validationErrors = append(validationErrors, "title must be 100 characters or less")
	}
	if strings.TrimSpace(p.Body) == "" {
		validationErrors = append(validationErrors, "body is required")
	}
	if utf8.RuneCountInString(p.Tag) > 50 {
		validationErrors = append(validationErrors, "tag must be 50 characters or less")
	}
	if p.Date.IsZero() {
		validationErrors = append(validationErrors, "date is required")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// ValidationError ошибка валидации входных данных; ничего не было записано
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// IsValidationError проверяет, является ли ошибка (или обёрнутая в ней) ошибкой валидации
func IsValidationError(err error) bool {
	var ve *ValidationError
	return asValidationError(err, &ve)
}
