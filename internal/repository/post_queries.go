package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"fotoblog/internal/domain/models"
)

const (
	postTable  = "post"
	photoTable = "foto"
)

var (
	postColumns  = []string{"id", "titulo", "texto", "data", "COALESCE(tag, '')"}
	photoColumns = []string{"id", "nome", "caminho", "post_id"}
)

// rowScanner общий знаменатель pgx.Rows и *sql.Rows
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func selectPosts(sb sq.StatementBuilderType) sq.SelectBuilder {
	return sb.Select(postColumns...).
		From(postTable).
		OrderBy("data DESC", "id DESC")
}

func selectPhotos(sb sq.StatementBuilderType, postIDs []int64) sq.SelectBuilder {
	return sb.Select(photoColumns...).
		From(photoTable).
		Where(sq.Eq{"post_id": postIDs}).
		OrderBy("id ASC")
}

func insertPhoto(sb sq.StatementBuilderType, photo *models.Photo) sq.InsertBuilder {
	return sb.Insert(photoTable).
		Columns("nome", "caminho", "post_id").
		Values(photo.DisplayName, photo.RelativePath, photo.PostID)
}

func scanPhotos(rows rowScanner) (map[int64][]models.Photo, error) {
	byPost := make(map[int64][]models.Photo)

	for rows.Next() {
		var photo models.Photo
		if err := rows.Scan(&photo.ID, &photo.DisplayName, &photo.RelativePath, &photo.PostID); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		byPost[photo.PostID] = append(byPost[photo.PostID], photo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return byPost, nil
}

// attachPhotos раскладывает фото по постам; у поста без фото пустой, но не nil срез
func attachPhotos(posts []models.Post, byPost map[int64][]models.Photo) {
	for i := range posts {
		if photos, ok := byPost[posts[i].ID]; ok {
			posts[i].Photos = photos
		} else {
			posts[i].Photos = []models.Photo{}
		}
	}
}

func postIDs(posts []models.Post) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func nullableTag(tag string) any {
	if tag == "" {
		return nil
	}
	return tag
}
