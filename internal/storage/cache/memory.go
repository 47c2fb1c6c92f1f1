package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"fotoblog/internal/domain/models"
	"fotoblog/internal/storage"
)

const postsKey = "posts:all"

type MemoryCache struct {
	// mu упорядочивает SetPosts и Invalidate относительно gen
	mu  sync.Mutex
	gen uint64
	c   *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		c: gocache.New(ttl, 2*ttl),
	}
}

func (m *MemoryCache) Generation(_ context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.gen, nil
}

func (m *MemoryCache) GetPosts(_ context.Context) ([]models.Post, error) {
	v, ok := m.c.Get(postsKey)
	if !ok {
		return nil, storage.ErrCacheMiss
	}

	posts, ok := v.([]models.Post)
	if !ok {
		return nil, storage.ErrCacheMiss
	}

	return clonePosts(posts), nil
}

func (m *MemoryCache) SetPosts(_ context.Context, gen uint64, posts []models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return nil
	}

	m.c.Set(postsKey, clonePosts(posts), gocache.DefaultExpiration)

	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.c.Delete(postsKey)

	return nil
}

func (m *MemoryCache) Name() string {
	return BackendMemory
}

// Noop кэш, который ничего не хранит
type Noop struct{}

func (Noop) Generation(context.Context) (uint64, error) { return 0, nil }

func (Noop) GetPosts(context.Context) ([]models.Post, error) { return nil, storage.ErrCacheMiss }

func (Noop) SetPosts(context.Context, uint64, []models.Post) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }

func (Noop) Name() string { return BackendNone }
