package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fotoblog/internal/storage"
	"fotoblog/internal/storage/postgresql"
	"fotoblog/internal/storage/sqlite"
)

const sqliteScheme = "sqlite://"

type Repository struct {
	Posts  PostRepository
	health func(ctx context.Context) error
	close  func()
}

// NewRepository выбирает хранилище по схеме DSN:
// postgres:// и postgresql:// для PostgreSQL, sqlite://<path> для SQLite.
// Миграции применяются при открытии.
func NewRepository(ctx context.Context, log *slog.Logger, dsn string) (*Repository, error) {
	const op = "repository.NewRepository"

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		pg, err := postgresql.New(ctx, dsn, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		return &Repository{
			Posts:  NewPostRepository(pg.Pool()),
			health: pg.HealthCheck,
			close:  pg.Stop,
		}, nil

	case strings.HasPrefix(dsn, sqliteScheme):
		lite, err := sqlite.New(ctx, strings.TrimPrefix(dsn, sqliteScheme), log)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		return &Repository{
			Posts:  NewSQLitePostRepository(lite.DB()),
			health: lite.HealthCheck,
			close:  lite.Stop,
		}, nil
	}

	return nil, fmt.Errorf("%s: %q: %w", op, redact(dsn), storage.ErrUnsupportedScheme)
}

// Migrate выполняет команду goose для хранилища, заданного DSN
func Migrate(ctx context.Context, log *slog.Logger, dsn, command string) error {
	const op = "repository.Migrate"

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgresql.Migrate(ctx, dsn, command, log)
	case strings.HasPrefix(dsn, sqliteScheme):
		return sqlite.Migrate(ctx, strings.TrimPrefix(dsn, sqliteScheme), command, log)
	}

	return fmt.Errorf("%s: %q: %w", op, redact(dsn), storage.ErrUnsupportedScheme)
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.health(ctx)
}

func (r *Repository) Close() {
	r.close()
}

// redact убирает пароль из DSN перед выводом в лог или ошибку
func redact(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return "<invalid>"
	}

	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}

	user, _, _ := strings.Cut(creds, ":")

	return scheme + "://" + user + ":***@" + host
}
