package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fotoblog/internal/domain/models"
	"fotoblog/internal/lib/logger/sl"
	"fotoblog/internal/metrics"
	"fotoblog/internal/repository"
	"fotoblog/internal/storage"
	"fotoblog/internal/storage/cache"
	filestorage "fotoblog/internal/storage/filestorage"
	"fotoblog/internal/transport/http/dto"
)

var (
	// ErrFilesystem не удалось создать каталог или записать файл
	ErrFilesystem = errors.New("filesystem error")
	// ErrPersistence ошибка хранилища; транзакция откатана
	ErrPersistence = errors.New("persistence error")
)

// состояния обработки поста, пишутся в лог
const (
	stateReceived      = "received"
	stateValidated     = "validated"
	statePostPersisted = "post_persisted"
	statePhotosWritten = "photos_written"
	stateCommitted     = "committed"
	stateRejected      = "rejected_invalid_input"
	stateRolledBack    = "rolled_back"
)

type PostService struct {
	log         *slog.Logger
	repo        repository.PostRepository
	fileStorage filestorage.FileStorage
	cache       cache.ListingCache
	now         func() time.Time
}

type Option func(*PostService)

// WithClock подменяет источник времени для имён файлов
func WithClock(now func() time.Time) Option {
	return func(s *PostService) {
		s.now = now
	}
}

func NewPostService(
	log *slog.Logger,
	repo repository.PostRepository,
	fileStorage filestorage.FileStorage,
	listingCache cache.ListingCache,
	opts ...Option,
) *PostService {
	if listingCache == nil {
		listingCache = cache.Noop{}
	}

	s := &PostService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
		cache:       listingCache,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreatePost сохраняет пост и его фотографии атомарно: либо пост и все фото
// зафиксированы, либо в хранилище ничего нет, а записанные файлы удалены.
func (s *PostService) CreatePost(ctx context.Context, input dto.CreatePostInput) (int64, error) {
	const op = "post_service.CreatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", input.Title),
	)

	log.Info("post submission", slog.String("state", stateReceived), slog.Int("files", len(input.Files)))

	date, err := models.ParsePostDate(input.Date)
	if err != nil {
		return 0, s.reject(log, op, err)
	}

	post := &models.Post{
		Title: input.Title,
		Body:  input.Body,
		Date:  date,
		Tag:   input.Tag,
	}

	if err := post.Validate(); err != nil {
		return 0, s.reject(log, op, err)
	}

	log.Debug("post submission", slog.String("state", stateValidated))

	dir, created, err := s.fileStorage.ResolveDir(ctx, input.Title)
	if err != nil {
		log.Error("failed to resolve upload directory", sl.Err(err))
		metrics.PostsRejected.WithLabelValues("filesystem").Inc()

		return 0, fmt.Errorf("%s: %w: %w", op, ErrFilesystem, err)
	}

	// одно чтение часов на запрос: все файлы поста получают общий префикс
	now := s.now()

	var ingest *IngestResult

	err = s.repo.WithinTx(ctx, func(w repository.PostWriter) error {
		postID, err := w.CreatePost(ctx, post)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		post.ID = postID

		log.Debug("post submission", slog.String("state", statePostPersisted), slog.Int64("post_id", postID))

		ingest, err = s.IngestPhotos(ctx, postID, dir, input.Files, now)
		if err != nil {
			return err
		}

		log.Debug("post submission", slog.String("state", statePhotosWritten), slog.Int("photos", len(ingest.Photos)))

		for i := range ingest.Photos {
			photoID, err := w.CreatePhoto(ctx, &ingest.Photos[i])
			if err != nil {
				return fmt.Errorf("%w: %w", ErrPersistence, err)
			}
			ingest.Photos[i].ID = photoID
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrFilesystem) && !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}

		s.compensate(ctx, log, dir, created, ingest)

		reason := "persistence"
		if errors.Is(err, ErrFilesystem) {
			reason = "filesystem"
		}
		metrics.PostsRejected.WithLabelValues(reason).Inc()

		log.Error("post submission", slog.String("state", stateRolledBack), sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn("failed to invalidate listing cache", sl.Err(err))
	}

	metrics.PostsCreated.Inc()
	metrics.PhotosStored.Add(float64(len(ingest.Photos)))
	metrics.PhotoBytesStored.Add(float64(ingest.Bytes))

	log.Info("post submission",
		slog.String("state", stateCommitted),
		slog.Int64("post_id", post.ID),
		slog.Int("photos", len(ingest.Photos)),
		slog.String("dir", dir),
	)

	return post.ID, nil
}

// ListPosts возвращает все посты с фотографиями, новые сначала
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	const op = "post_service.ListPosts"

	log := s.log.With(
		slog.String("op", op),
		slog.String("cache", s.cache.Name()),
	)

	posts, err := s.cache.GetPosts(ctx)
	if err == nil {
		metrics.CacheHits.WithLabelValues(s.cache.Name()).Inc()
		log.Debug("listing served from cache", slog.Int("posts", len(posts)))

		return posts, nil
	}
	if !errors.Is(err, storage.ErrCacheMiss) {
		log.Warn("listing cache unavailable", sl.Err(err))
	}
	metrics.CacheMisses.WithLabelValues(s.cache.Name()).Inc()

	// поколение читается до хранилища: если между чтением и записью в кэш
	// зафиксирован новый пост, снимок в кэш не попадёт
	gen, genErr := s.cache.Generation(ctx)

	posts, err = s.repo.ListPosts(ctx)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))

		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}

	if genErr != nil {
		log.Warn("listing cache generation unavailable, not filling", sl.Err(genErr))

		return posts, nil
	}

	if err := s.cache.SetPosts(ctx, gen, posts); err != nil {
		log.Warn("failed to fill listing cache", sl.Err(err))
	}

	return posts, nil
}

// GetPost возвращает пост по id или storage.ErrPostNotFound
func (s *PostService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	const op = "post_service.GetPost"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("post_id", postID),
	)

	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			log.Debug("post not found")

			return nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Error("failed to get post", sl.Err(err))

		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}

	return post, nil
}

func (s *PostService) reject(log *slog.Logger, op string, err error) error {
	log.Warn("post submission", slog.String("state", stateRejected), sl.Err(err))
	metrics.PostsRejected.WithLabelValues("invalid_input").Inc()

	return fmt.Errorf("%s: %w", op, err)
}

// compensate удаляет файлы, записанные неудачной попыткой, и каталог,
// если он был создан этим запросом и остался пустым
func (s *PostService) compensate(ctx context.Context, log *slog.Logger, dir string, created bool, ingest *IngestResult) {
	// отмена запроса не должна мешать уборке
	ctx = context.WithoutCancel(ctx)

	if ingest != nil {
		for _, relPath := range ingest.Written {
			if err := s.fileStorage.Delete(ctx, relPath); err != nil {
				log.Error("failed to remove orphaned file", slog.String("path", relPath), sl.Err(err))
			}
		}
	}

	if created {
		if err := s.fileStorage.RemoveDir(ctx, dir); err != nil {
			log.Error("failed to remove upload directory", slog.String("dir", dir), sl.Err(err))
		}
	}
}
