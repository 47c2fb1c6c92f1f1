package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/jackc/pgx/v4/stdlib"

	"fotoblog/internal/storage/migrations"
)

type Storage struct {
	db *pgxpool.Pool
}

// New подключается к PostgreSQL и применяет миграции
func New(ctx context.Context, storagePath string, log *slog.Logger) (*Storage, error) {
	const op = "storage.postgresql.New"

	if err := Migrate(ctx, storagePath, "up", log); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.Connect(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		db: db,
	}, nil
}

// Migrate выполняет команду goose через database/sql-обёртку pgx
func Migrate(ctx context.Context, storagePath, command string, log *slog.Logger) error {
	const op = "storage.postgresql.Migrate"

	sqlDB, err := sql.Open("pgx", storagePath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(ctx, sqlDB, migrations.DialectPostgres, command, log); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.db
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Storage) Stop() {
	s.db.Close()
}
