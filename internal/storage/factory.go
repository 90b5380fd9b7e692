package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// NewDriver creates a storage driver for the package location subPath under
// the given storage root URI:
//   - file:// -> FileDriver (root resolved against configDir when relative)
//   - s3:// or s3+http:// -> S3Driver (requires reachable endpoint)
func NewDriver(root *StorageURI, configDir, subPath, token string, logger *slog.Logger) (Driver, error) {
	switch {
	case root.IsFileScheme():
		return NewFileDriver(filepath.Join(ResolvePath(configDir, root.Path), filepath.FromSlash(subPath)), logger), nil

	case root.IsS3Scheme():
		return NewS3Driver(root, subPath, token, logger)

	default:
		return nil, fmt.Errorf("unsupported storage scheme: %s", root.Scheme)
	}
}

// ResolvePath resolves p against baseDir unless p is already absolute
func ResolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
