package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a package file is not found
	ErrNotFound = errors.New("file not found")

	// ErrStorageUnavailable is returned when storage operations fail
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Driver is the file-level capability bound to a single package location.
// The index only resolves locations; everything a caller does with package
// files (tarballs, manifests) goes through a Driver.
type Driver interface {
	// Location returns the absolute location the driver is bound to
	// (a directory for file storage, an object prefix for S3)
	Location() string

	// ReadFile reads a single file from the package location
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// WriteFile writes a single file, replacing any existing content
	WriteFile(ctx context.Context, name string, data []byte) error

	// DeleteFile removes a single file
	DeleteFile(ctx context.Context, name string) error

	// ListFiles returns the file names present at the package location
	ListFiles(ctx context.Context) ([]string, error)
}
