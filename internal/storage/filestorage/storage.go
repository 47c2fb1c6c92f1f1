package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fotoblog/internal/lib/sanitize"
	"fotoblog/internal/storage"
)

// FileStorage интерфейс для работы с файловым хранилищем.
// Все относительные пути используют "/" как разделитель.
type FileStorage interface {
	ResolveDir(ctx context.Context, title string) (dir string, created bool, err error)
	Save(ctx context.Context, src io.Reader, dir, filename string) (relPath string, size int64, err error)
	Delete(ctx context.Context, relPath string) error
	RemoveDir(ctx context.Context, dir string) error
	GetFullPath(relativePath string) string
	BaseURL() string
	GetBaseDir() string
}

// LocalFileStorage реализация для локальной файловой системы
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "static/uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "/uploads")
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// ResolveDir возвращает каталог поста по его заголовку и создаёт его при необходимости.
// created == true, только если каталог создан этим вызовом.
func (s *LocalFileStorage) ResolveDir(ctx context.Context, title string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	dir := sanitize.DirName(title)
	fullPath := filepath.Join(s.baseDir, dir)

	created := false
	if _, err := os.Stat(fullPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat directory: %w", err)
		}
		created = true
	}

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return "", false, fmt.Errorf("failed to create directories: %w", err)
	}

	return dir, created, nil
}

// Save записывает поток в {baseDir}/{dir}/{filename}. Существующий файл никогда
// не перезаписывается: в этом случае возвращается storage.ErrFileExists.
func (s *LocalFileStorage) Save(ctx context.Context, src io.Reader, dir, filename string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if !isSegment(dir) || !isSegment(filename) {
		return "", 0, fmt.Errorf("%q/%q: %w", dir, filename, storage.ErrInvalidPath)
	}

	relPath := path.Join(dir, filename)
	filePath := s.GetFullPath(relPath)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	// Создаем целевой файл
	dst, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", 0, fmt.Errorf("%s: %w", relPath, storage.ErrFileExists)
		}
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}

	size, copyErr := io.Copy(dst, &ctxReader{ctx: ctx, r: src})
	closeErr := dst.Close()

	if copyErr != nil {
		_ = os.Remove(filePath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", 0, ctxErr
		}
		return "", 0, fmt.Errorf("failed to copy file: %w", copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(filePath)
		return "", 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	return relPath, size, nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(ctx context.Context, relPath string) error {
	if err := os.Remove(s.GetFullPath(relPath)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", relPath, storage.ErrFileNotFound)
		}
		return err
	}

	return nil
}

// RemoveDir удаляет каталог поста, только если он пуст. Непустой или
// отсутствующий каталог не считается ошибкой.
func (s *LocalFileStorage) RemoveDir(ctx context.Context, dir string) error {
	if !isSegment(dir) {
		return fmt.Errorf("%q: %w", dir, storage.ErrInvalidPath)
	}

	fullPath := filepath.Join(s.baseDir, dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(entries) > 0 {
		return nil
	}

	return os.Remove(fullPath)
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(relativePath))
}

// BaseURL возвращает базовый URL для доступа к файлам
func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

// URL публичный адрес файла по его относительному пути
func (s *LocalFileStorage) URL(relPath string) string {
	return PublicURL(s.baseURL, relPath)
}

// PublicURL склеивает базовый URL раздачи файлов и относительный путь фото
func PublicURL(baseURL, relPath string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(relPath, "/")
}

func isSegment(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// ctxReader прерывает копирование при отмене контекста
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
