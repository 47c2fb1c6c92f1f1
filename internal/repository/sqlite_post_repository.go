package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"fotoblog/internal/domain/models"
	"fotoblog/internal/storage"
)

// SQLitePostRepo реализация PostRepository поверх database/sql и SQLite.
// Дата хранится текстом в формате models.DateLayout, чтобы сортировка по строке совпадала с хронологической.
type SQLitePostRepo struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewSQLitePostRepository(db *sql.DB) *SQLitePostRepo {
	return &SQLitePostRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (r *SQLitePostRepo) WithinTx(ctx context.Context, fn func(w PostWriter) error) error {
	const op = "repository.sqlite_post_repository.WithinTx"

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&sqlPostWriter{tx: tx, sb: r.sb}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (r *SQLitePostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	const op = "repository.sqlite_post_repository.ListPosts"

	query, args, err := selectPosts(r.sb).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanSQLitePost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// соединение одно: курсор нужно закрыть до следующего запроса
	_ = rows.Close()

	if err := r.loadPhotos(ctx, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (r *SQLitePostRepo) GetPostByID(ctx context.Context, postID int64) (*models.Post, error) {
	const op = "repository.sqlite_post_repository.GetPostByID"

	query, args, err := selectPosts(r.sb).Where(sq.Eq{"id": postID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build SQL query: %w", op, err)
	}

	post, err := scanSQLitePost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts := []models.Post{post}
	if err := r.loadPhotos(ctx, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &posts[0], nil
}

func (r *SQLitePostRepo) loadPhotos(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	query, args, err := selectPhotos(r.sb, postIDs(posts)).ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byPost, err := scanPhotos(rows)
	if err != nil {
		return err
	}

	attachPhotos(posts, byPost)

	return nil
}

func scanSQLitePost(row interface{ Scan(dest ...any) error }) (models.Post, error) {
	var (
		post models.Post
		date string
	)

	if err := row.Scan(&post.ID, &post.Title, &post.Body, &date, &post.Tag); err != nil {
		return models.Post{}, err
	}

	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return models.Post{}, fmt.Errorf("post %d: bad stored date %q: %w", post.ID, date, err)
	}
	post.Date = parsed

	return post, nil
}

type sqlPostWriter struct {
	tx *sql.Tx
	sb sq.StatementBuilderType
}

func (w *sqlPostWriter) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	const op = "repository.sqlite_post_repository.CreatePost"

	query, args, err := w.sb.Insert(postTable).
		Columns("titulo", "texto", "data", "tag").
		Values(post.Title, post.Body, post.Date.Format(models.DateLayout), nullableTag(post.Tag)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := w.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (w *sqlPostWriter) CreatePhoto(ctx context.Context, photo *models.Photo) (int64, error) {
	const op = "repository.sqlite_post_repository.CreatePhoto"

	query, args, err := insertPhoto(w.sb, photo).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := w.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
