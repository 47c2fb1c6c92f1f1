package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fotoblog/internal/domain/models"
	"fotoblog/internal/storage"
	redisapp "fotoblog/internal/storage/redis"
)

// RedisGenerationKey счётчик поколений ленты; INCR при каждом сбросе
const RedisGenerationKey = "fotoblog:posts:gen"

// RedisPostsKey ключ снимка ленты для поколения gen.
// Снимок, записанный с устаревшим поколением, никто не читает.
func RedisPostsKey(gen uint64) string {
	return fmt.Sprintf("fotoblog:%s:%d", postsKey, gen)
}

type RedisCache struct {
	Client *redisapp.Client
	ttl    time.Duration
}

func NewRedisCache(client *redisapp.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, ttl: ttl}
}

func (r *RedisCache) Generation(ctx context.Context) (uint64, error) {
	const op = "storage.cache.RedisCache.Generation"

	gen, err := r.Client.Get(ctx, RedisGenerationKey).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return gen, nil
}

func (r *RedisCache) GetPosts(ctx context.Context) ([]models.Post, error) {
	const op = "storage.cache.RedisCache.GetPosts"

	gen, err := r.Generation(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	val, err := r.Client.Get(ctx, RedisPostsKey(gen)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrCacheMiss
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var posts []models.Post
	if err := json.Unmarshal([]byte(val), &posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (r *RedisCache) SetPosts(ctx context.Context, gen uint64, posts []models.Post) error {
	const op = "storage.cache.RedisCache.SetPosts"

	payload, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.Set(ctx, RedisPostsKey(gen), string(payload), r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context) error {
	const op = "storage.cache.RedisCache.Invalidate"

	gen, err := r.Client.Incr(ctx, RedisGenerationKey).Uint64()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// снимок прошлого поколения больше не нужен; без TTL он остался бы навсегда
	if err := r.Client.Del(ctx, RedisPostsKey(gen-1)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisCache) Name() string {
	return BackendRedis
}
