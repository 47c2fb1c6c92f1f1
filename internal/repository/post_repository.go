package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fotoblog/internal/domain/models"
	"fotoblog/internal/storage"
)

// PostRepo реализация PostRepository поверх PostgreSQL
type PostRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPostRepository(db *pgxpool.Pool) *PostRepo {
	return &PostRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostRepo) WithinTx(ctx context.Context, fn func(w PostWriter) error) error {
	const op = "repository.post_repository.WithinTx"

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	// после Commit откат ничего не делает
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgxPostWriter{tx: tx, sb: r.sb}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (r *PostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	const op = "repository.post_repository.ListPosts"

	query, args, err := selectPosts(r.sb).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Body, &post.Date, &post.Tag); err != nil {
			return nil, fmt.Errorf("%s: failed to scan post: %w", op, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rows.Close()

	if err := r.loadPhotos(ctx, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (r *PostRepo) GetPostByID(ctx context.Context, postID int64) (*models.Post, error) {
	const op = "repository.post_repository.GetPostByID"

	query, args, err := selectPosts(r.sb).Where(sq.Eq{"id": postID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build SQL query: %w", op, err)
	}

	var post models.Post
	err = r.db.QueryRow(ctx, query, args...).Scan(&post.ID, &post.Title, &post.Body, &post.Date, &post.Tag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

func (r *PostRepo) loadPhotos(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	query, args, err := selectPhotos(r.sb, postIDs(posts)).ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.Query(ctx, query, args...)
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

type pgxPostWriter struct {
	tx pgx.Tx
	sb sq.StatementBuilderType
}

func (w *pgxPostWriter) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	const op = "repository.post_repository.CreatePost"

	query, args, err := w.sb.Insert(postTable).
		Columns("titulo", "texto", "data", "tag").
		Values(post.Title, post.Body, post.Date, nullableTag(post.Tag)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	if err := w.tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (w *pgxPostWriter) CreatePhoto(ctx context.Context, photo *models.Photo) (int64, error) {
	const op = "repository.post_repository.CreatePhoto"

	query, args, err := insertPhoto(w.sb, photo).Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	if err := w.tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
