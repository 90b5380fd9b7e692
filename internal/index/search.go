package index

import "context"

// PackageSummary describes a package discovered under a storage root without
// being tracked by the index.
type PackageSummary struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Search scans the configured storage roots for packages outside the primary
// index. Scanning is not implemented yet, so the result is always empty.
// TODO: walk the global root and per-rule override directories.
func (s *Store) Search(ctx context.Context) ([]PackageSummary, error) {
	return []PackageSummary{}, nil
}
