// Package cache хранит готовую ленту постов между запросами.
// Запись поста сбрасывает кэш целиком и сдвигает поколение: снимок, прочитанный
// из хранилища до сброса, уже не попадёт в кэш.
package cache

import (
	"context"
	"fmt"
	"time"

	"fotoblog/internal/domain/models"
	redisapp "fotoblog/internal/storage/redis"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// ListingCache кэш ленты. GetPosts возвращает storage.ErrCacheMiss, если значения нет.
// Generation читается до обращения к хранилищу и передаётся в SetPosts;
// снимок устаревшего поколения не сохраняется.
type ListingCache interface {
	Generation(ctx context.Context) (uint64, error)
	GetPosts(ctx context.Context) ([]models.Post, error)
	SetPosts(ctx context.Context, gen uint64, posts []models.Post) error
	Invalidate(ctx context.Context) error
	Name() string
}

// New собирает кэш по имени бэкенда; redis-клиент нужен только для BackendRedis
func New(backend string, ttl time.Duration, client *redisapp.Client) (ListingCache, error) {
	const op = "storage.cache.New"

	switch backend {
	case BackendMemory, "":
		return NewMemoryCache(ttl), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("%s: redis backend requires a client", op)
		}
		return NewRedisCache(client, ttl), nil
	case BackendNone:
		return Noop{}, nil
	}

	return nil, fmt.Errorf("%s: unknown backend %q", op, backend)
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = p
		out[i].Photos = append([]models.Photo{}, p.Photos...)
	}
	return out
}
