package taxonomy

import (
	"log/slog"
	"sync"
)

// Store holds the current Index and supports explicit reloads. The Index
// itself stays immutable; Reload parses the file into a fresh Index and
// swaps it in, so in-flight requests keep the snapshot they started with.
type Store struct {
	path   string
	logger *slog.Logger

	mu  sync.RWMutex
	idx *Index
}

// NewStore loads the reference table at path and returns a Store around it.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	idx, err := Load(path, logger)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, logger: logger, idx: idx}, nil
}

// Index returns the current immutable index snapshot.
func (s *Store) Index() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}

// Path returns the reference table path the store was created with.
func (s *Store) Path() string {
	return s.path
}

// Reload rebuilds the index from disk. On failure the previous index stays
// in place.
func (s *Store) Reload() error {
	idx, err := Load(s.path, s.logger)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.idx = idx
	s.mu.Unlock()
	s.logger.Info("taxonomy reloaded", "path", s.path, "entries", idx.Len())
	return nil
}
