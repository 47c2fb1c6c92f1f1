package models

import (
	"errors"
	"path"
	"strings"
	"unicode/utf8"
)

// Photo метаданные загруженного файла; соответствует таблице foto.
// RelativePath всегда использует "/" как разделитель, независимо от ОС.
type Photo struct {
	ID           int64  `db:"id" json:"id"`
	DisplayName  string `db:"nome" json:"display_name"`
	RelativePath string `db:"caminho" json:"relative_path"`
	PostID       int64  `db:"post_id" json:"post_id"`
}

// NewPhoto создаёт запись фото для файла name в каталоге поста dir
func NewPhoto(postID int64, dir, name string) *Photo {
	return &Photo{
		PostID:       postID,
		DisplayName:  name,
		RelativePath: path.Join(dir, name),
	}
}

// Validate проверяет корректность метаданных фото
func (p *Photo) Validate() error {
	var validationErrors []string

	if p.PostID <= 0 {
		validationErrors = append(validationErrors, "post ID is required")
	}
	if p.DisplayName == "" {
		validationErrors = append(validationErrors, "display name is required")
	}
	if utf8.RuneCountInString(p.DisplayName) > 100 {
		validationErrors = append(validationErrors, "display name must be 100 characters or less")
	}
	if p.RelativePath == "" {
		validationErrors = append(validationErrors, "relative path is required")
	}
	if utf8.RuneCountInString(p.RelativePath) > 200 {
		validationErrors = append(validationErrors, "relative path must be 200 characters or less")
	}
	if strings.HasPrefix(p.RelativePath, "/") || strings.Contains(p.RelativePath, "..") {
		validationErrors = append(validationErrors, "relative path must stay inside the upload root")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

func asValidationError(err error, target **ValidationError) bool {
	return errors.As(err, target)
}
