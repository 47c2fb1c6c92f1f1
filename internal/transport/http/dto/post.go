package dto

import (
	"mime/multipart"
	"strings"
	"time"

	"fotoblog/internal/domain/models"
	filestorage "fotoblog/internal/storage/filestorage"
)

// CreatePostForm поля формы /cadastro; имена полей совпадают с HTML-формой
type CreatePostForm struct {
	Title string `form:"titulo" validate:"required,max=100"`
	Body  string `form:"texto" validate:"required"`
	Date  string `form:"data" validate:"required,datetime=2006-01-02"`
	Tag   string `form:"tag" validate:"max=50"`
}

// Normalize обрезает пробелы по краям значений формы
func (f *CreatePostForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Body = strings.TrimSpace(f.Body)
	f.Date = strings.TrimSpace(f.Date)
	f.Tag = strings.TrimSpace(f.Tag)
}

// ToInput собирает вход сервиса из формы и загруженных файлов
func (f CreatePostForm) ToInput(files []*multipart.FileHeader) CreatePostInput {
	return CreatePostInput{
		Title: f.Title,
		Body:  f.Body,
		Date:  f.Date,
		Tag:   f.Tag,
		Files: files,
	}
}

// CreatePostInput провалидированный запрос на создание поста
type CreatePostInput struct {
	Title string
	Body  string
	Date  string
	Tag   string
	Files []*multipart.FileHeader
}

type PhotoResponse struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Path        string `json:"path"`
	URL         string `json:"url"`
}

type PostResponse struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Body   string          `json:"body"`
	Date   string          `json:"date"`
	Tag    string          `json:"tag,omitempty"`
	Photos []PhotoResponse `json:"photos"`
}

// NewPostResponse строит ответ API; baseURL префикс публичных адресов файлов
func NewPostResponse(post models.Post, baseURL string) PostResponse {
	photos := make([]PhotoResponse, 0, len(post.Photos))
	for _, p := range post.Photos {
		photos = append(photos, PhotoResponse{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Path:        p.RelativePath,
			URL:         filestorage.PublicURL(baseURL, p.RelativePath),
		})
	}

	return PostResponse{
		ID:     post.ID,
		Title:  post.Title,
		Body:   post.Body,
		Date:   post.Date.Format(models.DateLayout),
		Tag:    post.Tag,
		Photos: photos,
	}
}

func NewPostListResponse(posts []models.Post, baseURL string) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p, baseURL))
	}
	return out
}

// FormDateNow значение по умолчанию для поля даты в форме
func FormDateNow(now time.Time) string {
	return now.Format(models.DateLayout)
}
