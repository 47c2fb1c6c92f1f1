package repository

import (
	"context"

	"fotoblog/internal/domain/models"
)

// PostWriter операции записи, доступные внутри транзакции
type PostWriter interface {
	CreatePost(ctx context.Context, post *models.Post) (int64, error)
	CreatePhoto(ctx context.Context, photo *models.Photo) (int64, error)
}

// PostRepository хранилище постов и фотографий.
// WithinTx фиксирует транзакцию, только если fn вернула nil; иначе откатывает её.
type PostRepository interface {
	WithinTx(ctx context.Context, fn func(w PostWriter) error) error
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPostByID(ctx context.Context, postID int64) (*models.Post, error)
}
