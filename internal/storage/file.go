package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileDriver implements Driver on top of a local package directory
type FileDriver struct {
	dir    string
	logger *slog.Logger
}

// NewFileDriver creates a driver bound to the given absolute package directory.
// The directory is created lazily on the first write.
func NewFileDriver(dir string, logger *slog.Logger) *FileDriver {
	return &FileDriver{
		dir:    dir,
		logger: logger,
	}
}

// Location returns the package directory
func (d *FileDriver) Location() string {
	return d.dir
}

// validateFileName rejects names that would escape the package directory
func validateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

// ReadFile reads a single file from the package directory
func (d *FileDriver) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := validateFileName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes a file atomically (temp file + rename), creating the
// package directory if needed
func (d *FileDriver) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := validateFileName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("failed to create package directory: %w", err)
	}

	// Create temp file in same directory
	tempFile, err := os.CreateTemp(d.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure temp file cleanup on error
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tempFile = nil // Prevent deferred cleanup

	if err := os.Rename(tempPath, filepath.Join(d.dir, name)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	d.logger.Debug("Package file written",
		"dir", d.dir,
		"file", name,
		"size_bytes", len(data))
	return nil
}

// DeleteFile removes a single file from the package directory
func (d *FileDriver) DeleteFile(ctx context.Context, name string) error {
	if err := validateFileName(name); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(d.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}

	d.logger.Debug("Package file deleted", "dir", d.dir, "file", name)
	return nil
}

// ListFiles returns the file names in the package directory. A missing
// directory is treated as an empty package, not an error.
func (d *FileDriver) ListFiles(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list package directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		names = append(names, e.Name())
	}

	return names, nil
}
