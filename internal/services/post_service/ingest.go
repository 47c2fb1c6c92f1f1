package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/rs/xid"

	"fotoblog/internal/domain/models"
	"fotoblog/internal/lib/logger/sl"
	"fotoblog/internal/lib/sanitize"
	"fotoblog/internal/storage"
)

// TimestampLayout префикс имени файла: YYYYMMDDhhmmss
const TimestampLayout = "20060102150405"

// MaxExtLen предел длины расширения вместе с точкой; длиннее обрезается
const MaxExtLen = 16

// IngestResult итог записи файлов. Written заполняется и при ошибке,
// чтобы вызывающий мог удалить уже записанное.
type IngestResult struct {
	Photos  []models.Photo
	Written []string
	Bytes   int64
}

// IngestPhotos записывает файлы в каталог dir под именами {timestamp}_{seq}{ext}.
// seq равен позиции файла в исходном списке начиная с 1; пустые записи пропускаются,
// но свой номер занимают. Фото не сохраняются в хранилище.
func (s *PostService) IngestPhotos(
	ctx context.Context,
	postID int64,
	dir string,
	files []*multipart.FileHeader,
	now time.Time,
) (*IngestResult, error) {
	const op = "post_service.IngestPhotos"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("post_id", postID),
		slog.String("dir", dir),
	)

	res := &IngestResult{
		Photos:  make([]models.Photo, 0, len(files)),
		Written: make([]string, 0, len(files)),
	}

	stamp := now.Format(TimestampLayout)

	for i, fh := range files {
		if fh == nil || fh.Filename == "" {
			log.Debug("skipping empty upload slot", slog.Int("seq", i+1))
			continue
		}

		ext := storedExt(fh.Filename)
		name := fmt.Sprintf("%s_%d%s", stamp, i+1, ext)

		relPath, size, err := s.saveUpload(ctx, fh, dir, name)
		if errors.Is(err, storage.ErrFileExists) {
			// тот же заголовок и та же секунда в другом запросе
			name = fmt.Sprintf("%s_%d_%s%s", stamp, i+1, xid.New().String(), ext)
			log.Warn("file name taken, retrying with suffix", slog.String("name", name))

			relPath, size, err = s.saveUpload(ctx, fh, dir, name)
		}
		if err != nil {
			log.Error("failed to write photo", slog.String("name", name), sl.Err(err))

			return res, fmt.Errorf("%s: %w: %w", op, ErrFilesystem, err)
		}

		res.Written = append(res.Written, relPath)
		res.Bytes += size

		photo := models.NewPhoto(postID, dir, name)
		if err := photo.Validate(); err != nil {
			// такую запись хранилище не примет
			return res, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
		}
		res.Photos = append(res.Photos, *photo)

		log.Debug("photo written",
			slog.String("original", fh.Filename),
			slog.String("path", relPath),
			slog.Int64("size", size),
		)
	}

	return res, nil
}

func (s *PostService) saveUpload(ctx context.Context, fh *multipart.FileHeader, dir, name string) (string, int64, error) {
	src, err := fh.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	return s.fileStorage.Save(ctx, src, dir, name)
}

// storedExt расширение очищенного имени; SecureFilename отдаёт ASCII, срез по байтам безопасен
func storedExt(filename string) string {
	ext := filepath.Ext(sanitize.SecureFilename(filename))
	if len(ext) > MaxExtLen {
		ext = ext[:MaxExtLen]
	}

	return ext
}
