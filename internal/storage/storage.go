package storage

import "errors"

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrUnsupportedScheme = errors.New("unsupported database scheme")
	ErrCacheMiss         = errors.New("cache miss")
)

var (
	ErrFileTooLarge = errors.New("file size exceeds limit")
	ErrFileNotFound = errors.New("file not found")
	ErrFileExists   = errors.New("file already exists")
	ErrInvalidPath  = errors.New("path escapes storage root")
)
