// Package migrations хранит SQL-схему для каждого поддерживаемого диалекта и применяет её через goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// goose хранит настройки в глобальных переменных
var mu sync.Mutex

// Up применяет все новые миграции
func Up(ctx context.Context, db *sql.DB, dialect string, log *slog.Logger) error {
	return Run(ctx, db, dialect, "up", log)
}

// Run выполняет команду goose (up, down, status, reset, version) над встроенными миграциями
func Run(ctx context.Context, db *sql.DB, dialect, command string, log *slog.Logger) error {
	const op = "storage.migrations.Run"

	dir, err := dirFor(dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&gooseLogger{log: log.With(slog.String("op", op), slog.String("dialect", dialect))})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch strings.ToLower(command) {
	case "up":
		err = goose.UpContext(ctx, db, dir)
	case "down":
		err = goose.DownContext(ctx, db, dir)
	case "status":
		err = goose.StatusContext(ctx, db, dir)
	case "reset":
		err = goose.ResetContext(ctx, db, dir)
	case "version":
		err = goose.VersionContext(ctx, db, dir)
	default:
		err = fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func dirFor(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// gooseLogger направляет вывод goose в slog
type gooseLogger struct {
	log *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
