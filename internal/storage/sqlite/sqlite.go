package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"fotoblog/internal/storage/migrations"
)

// InMemory путь для базы, живущей только в памяти процесса
const InMemory = ":memory:"

type Storage struct {
	db *sql.DB
}

// New открывает файл SQLite (создавая каталог при необходимости) и применяет миграции
func New(ctx context.Context, storagePath string, log *slog.Logger) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := open(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := migrations.Up(ctx, db, migrations.DialectSQLite, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Migrate выполняет команду goose над файлом SQLite
func Migrate(ctx context.Context, storagePath, command string, log *slog.Logger) error {
	const op = "storage.sqlite.Migrate"

	db, err := open(ctx, storagePath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, migrations.DialectSQLite, command, log); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func open(ctx context.Context, storagePath string) (*sql.DB, error) {
	if storagePath != InMemory {
		if err := os.MkdirAll(filepath.Dir(storagePath), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", storagePath)
	if err != nil {
		return nil, err
	}

	// одно соединение: у :memory: своя база на каждое соединение, а SQLite всё равно пишет последовательно
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Stop() {
	_ = s.db.Close()
}
