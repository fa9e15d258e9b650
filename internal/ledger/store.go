package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Common store errors.
var (
	// ErrInvalidLedger indicates the ledger file exists but cannot be
	// parsed. Callers treat this as "no usable checkpoints"; the malformed
	// content is never repaired or deleted.
	ErrInvalidLedger = errors.New("invalid checkpoint ledger")

	// ErrEmptyLedger indicates a pop was attempted on an empty ledger.
	ErrEmptyLedger = errors.New("checkpoint ledger is empty")
)

const ledgerFileName = "checkpoints.json"

// Store reads and writes the checkpoint ledger for one repository.
//
// The store is constructed with the repository's .git directory so tests
// can point it at a temp directory; it holds no global state.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a store for the ledger under gitDir/gitguard/.
func NewStore(gitDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   filepath.Join(gitDir, "gitguard", ledgerFileName),
		logger: logger,
	}
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger. A missing file yields an empty ledger; malformed
// content yields ErrInvalidLedger.
func (s *Store) Load() ([]Checkpoint, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Checkpoint{}, nil
		}
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}

	var checkpoints []Checkpoint
	if err := json.Unmarshal(data, &checkpoints); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidLedger, s.path, err)
	}
	return checkpoints, nil
}

// Save overwrites the ledger atomically: the new content is written to a
// temp file in the same directory and renamed into place.
func (s *Store) Save(checkpoints []Checkpoint) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating ledger directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(checkpoints, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ledgerFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp ledger: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing ledger %s: %w", s.path, err)
	}

	s.logger.Debug("ledger saved",
		zap.String("path", s.path),
		zap.Int("entries", len(checkpoints)))
	return nil
}

// Prepend inserts a checkpoint at the front of the ledger (most recent
// first) and persists it.
func (s *Store) Prepend(cp Checkpoint) error {
	checkpoints, err := s.Load()
	if err != nil {
		return err
	}
	checkpoints = append([]Checkpoint{cp}, checkpoints...)
	return s.Save(checkpoints)
}

// PopFront removes and returns the most recent checkpoint, persisting the
// truncated ledger. Returns ErrEmptyLedger when there is nothing to pop.
func (s *Store) PopFront() (Checkpoint, error) {
	checkpoints, err := s.Load()
	if err != nil {
		return Checkpoint{}, err
	}
	if len(checkpoints) == 0 {
		return Checkpoint{}, ErrEmptyLedger
	}
	front := checkpoints[0]
	if err := s.Save(checkpoints[1:]); err != nil {
		return Checkpoint{}, err
	}
	return front, nil
}
