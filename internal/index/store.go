package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"github.com/nimbler/registry-index/internal/config"
	"github.com/nimbler/registry-index/internal/storage"
)

var (
	// ErrLocked is returned by every mutating operation after the store
	// refused a corrupt or unreadable index file at startup
	ErrLocked = errors.New("index store is locked")

	// ErrNoStorageRoot is returned when package storage is requested but no
	// global storage root is configured
	ErrNoStorageRoot = errors.New("no storage root configured")
)

// Store owns the lifecycle of the private package index: load at startup,
// serve reads from memory, persist synchronously after every mutation.
//
// A single Store is the only writer of its index file; there is no
// inter-process lock. All mutations serialize through one mutex so two
// callers can never race to overwrite each other's persisted state.
type Store struct {
	mu        sync.RWMutex
	cfg       *config.Config
	logger    *slog.Logger
	indexPath string
	data      *Index
	locked    bool
}

// Open loads the index file resolved from the configuration and returns a
// usable store. A missing file is a normal first run and yields an empty
// index. Any other load failure locks the store: reads keep working from the
// empty in-memory index, but every persistence attempt fails with ErrLocked
// until an operator repairs the file and restarts.
func Open(cfg *config.Config, logger *slog.Logger) *Store {
	s := &Store{
		cfg:       cfg,
		logger:    logger,
		indexPath: cfg.IndexPath(),
		data:      NewIndex(),
	}
	s.load()
	return s
}

// load reads and parses the index file, then re-persists the parsed content
// once so the on-disk form is normalized.
func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("Index file not found, starting with empty index",
				"index_path", s.indexPath)
			return
		}
		s.locked = true
		s.logger.Error("Index file unreadable, locking store",
			"index_path", s.indexPath,
			"error", err)
		return
	}

	var ix Index
	if err := json.Unmarshal(raw, &ix); err != nil {
		s.locked = true
		s.logger.Error("Index file corrupt, locking store",
			"index_path", s.indexPath,
			"error", err)
		return
	}
	if ix.List == nil {
		ix.List = []string{}
	}
	s.data = &ix

	s.logger.Info("Index file loaded",
		"index_path", s.indexPath,
		"package_count", len(s.data.List))

	// Normalization pass; a failure here is logged but does not lock the
	// store, the parsed in-memory index is still authoritative
	if err := s.persistLocked(); err != nil {
		s.logger.Error("Failed to normalize index file",
			"index_path", s.indexPath,
			"error", err)
	}
}

// Locked reports whether the store refused its index file at startup
func (s *Store) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locked
}

// IndexPath returns the resolved absolute path of the index file
func (s *Store) IndexPath() string {
	return s.indexPath
}

// Secret returns the current in-memory signing secret
func (s *Store) Secret() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Secret
}

// SetSecret sets the signing secret and persists the index
func (s *Store) SetSecret(secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.data.Secret
	s.data.Secret = secret

	if err := s.persistLocked(); err != nil {
		// Rollback in-memory change
		s.data.Secret = prev
		s.logger.Error("Index write failed",
			"operation", "set_secret",
			"error", err)
		return err
	}

	return nil
}

// Add appends a package name to the index and persists it. Adding a name
// already present is a no-op that succeeds without touching the filesystem.
func (s *Store) Add(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Has(name) {
		return nil
	}

	s.data.List = append(s.data.List, name)

	if err := s.persistLocked(); err != nil {
		// Rollback in-memory change
		s.data.List = s.data.List[:len(s.data.List)-1]
		s.logger.Error("Index write failed",
			"operation", "add",
			"package", name,
			"error", err)
		return err
	}

	s.logger.Info("Package added", "package", name)
	return nil
}

// Remove deletes a package name from the index, preserving the order of the
// remaining names. Removing an absent name is a no-op, but the index is
// persisted either way and the persistence outcome is returned.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.data.List
	if i := slices.Index(s.data.List, name); i >= 0 {
		s.data.List = slices.Delete(slices.Clone(s.data.List), i, i+1)
	}

	if err := s.persistLocked(); err != nil {
		// Rollback in-memory change
		s.data.List = prev
		s.logger.Error("Index write failed",
			"operation", "remove",
			"package", name,
			"error", err)
		return err
	}

	s.logger.Info("Package removed", "package", name)
	return nil
}

// List returns a snapshot of the package names in insertion order
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.List)
}

// PackageStorage resolves the storage driver for a package: a per-package
// rule override is joined under the global root, and relative roots resolve
// against the configuration directory. A registry cannot run without a
// global storage root, so an unset root fails fast.
func (s *Store) PackageStorage(name string) (storage.Driver, error) {
	if s.cfg.Storage.Root == "" {
		return nil, fmt.Errorf("%w: set storage.root in the configuration", ErrNoStorageRoot)
	}

	root, err := storage.ParseStorageURI(s.cfg.Storage.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid storage root: %w", err)
	}

	subPath := name
	if rule := s.cfg.MatchedPackagesSpec(name); rule != nil && rule.Storage != "" {
		subPath = path.Join(rule.Storage, name)
	}

	return storage.NewDriver(root, s.cfg.Directory(), subPath, s.cfg.Storage.Token, s.logger)
}

// persistLocked serializes the whole index and atomically replaces the index
// file (temp file + rename), so a failed write leaves the previous file
// intact. Caller must hold the write lock.
func (s *Store) persistLocked() error {
	if s.locked {
		return fmt.Errorf("%w: index file %s failed to load; repair or remove it and restart", ErrLocked, s.indexPath)
	}

	// A directory-creation failure is a persistence failure; nothing was
	// written, so the caller must not observe success
	dir := filepath.Dir(s.indexPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, ".registry-db-*.json.tmp")
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

	if _, err := tempFile.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tempFile = nil // Prevent deferred cleanup

	if err := os.Rename(tempPath, s.indexPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
