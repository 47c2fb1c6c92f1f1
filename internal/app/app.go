package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "fotoblog/internal/app/http"
	"fotoblog/internal/config"
	"fotoblog/internal/lib/logger/sl"
	"fotoblog/internal/repository"
	services "fotoblog/internal/services/post_service"
	"fotoblog/internal/storage/cache"
	filestorage "fotoblog/internal/storage/filestorage"
	redisapp "fotoblog/internal/storage/redis"
	httprouters "fotoblog/internal/transport/http"
)

type App struct {
	HTTPServer  *httpapp.Server
	PostService *services.PostService

	log   *slog.Logger
	repo  *repository.Repository
	redis *redisapp.Client
}

// New собирает приложение один раз: хранилище, файлы, кэш, сервис и HTTP-сервер
func New(ctx context.Context, log *slog.Logger, cfg *config.Config, opts ...services.Option) (*App, error) {
	const op = "app.New"

	repo, err := repository.NewRepository(ctx, log, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("%s: file storage: %w", op, err)
	}

	var redisClient *redisapp.Client
	if cfg.Cache.Backend == cache.BackendRedis {
		redisClient = redisapp.NewClient(cfg.Redis)
		if err := redisClient.HealthCheck(ctx); err != nil {
			// кэш необязателен: сервис переживёт недоступный Redis
			log.Warn("redis is not reachable, listing cache will miss", sl.Err(err))
		}
	}

	listingCache, err := cache.New(cfg.Cache.Backend, cfg.Cache.TTL, redisClient)
	if err != nil {
		repo.Close()
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postService := services.NewPostService(log, repo.Posts, fileStorage, listingCache, opts...)

	routers := httprouters.NewRouter(log, postService, fileStorage.BaseURL(), cfg.FileStorage.MaxSize, repo.HealthCheck)

	server, err := httpapp.New(log, httpapp.Options{
		Host:            cfg.HTTP.Host,
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		MaxUploadSize:   cfg.FileStorage.MaxSize,
		UploadDir:       fileStorage.GetBaseDir(),
		UploadURL:       fileStorage.BaseURL(),
	}, routers)
	if err != nil {
		repo.Close()
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	server.BuildRouters()

	log.Info("application initialized",
		slog.String("cache", listingCache.Name()),
		slog.String("upload_dir", fileStorage.GetBaseDir()),
		slog.Int64("max_upload_size", cfg.FileStorage.MaxSize),
	)

	return &App{
		HTTPServer:  server,
		PostService: postService,
		log:         log,
		repo:        repo,
		redis:       redisClient,
	}, nil
}

// Stop останавливает HTTP-сервер и закрывает соединения
func (a *App) Stop() {
	const op = "app.Stop"

	log := a.log.With(slog.String("op", op))

	if err := a.HTTPServer.Stop(); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}

	a.Close()

	log.Info("application stopped")
}

// Close закрывает хранилища, не трогая HTTP-сервер
func (a *App) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.repo.Close()
}
