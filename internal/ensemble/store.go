package ensemble

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/wicket-predictor/internal/models"
)

// Store persists trained forests as opaque blobs on disk, one file per stat
// class. Saves are atomic: the forest is written to a temp file and renamed
// into place, so a reader never observes a partially written model.
type Store struct {
	dir string
}

// NewStore creates a model store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("model directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the forest and returns the final artifact path.
func (s *Store) Save(f *Forest) (string, error) {
	if f == nil || len(f.Trees) == 0 {
		return "", models.ErrModelNotTrained
	}

	final := s.Path(f.Class)
	tmp, err := os.CreateTemp(s.dir, string(f.Class)+"-*.model.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(f); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to encode %s model: %w", f.Class, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("failed to publish %s model: %w", f.Class, err)
	}

	return final, nil
}

// Load reads the stored forest for a stat class. A missing artifact is an
// untrained model, not a storage error.
func (s *Store) Load(class models.StatClass) (*Forest, error) {
	file, err := os.Open(s.Path(class))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("loading %s model: %w", class, models.ErrModelNotTrained)
		}
		return nil, fmt.Errorf("failed to open %s model: %w", class, err)
	}
	defer file.Close()

	f := &Forest{}
	if err := gob.NewDecoder(file).Decode(f); err != nil {
		return nil, fmt.Errorf("failed to decode %s model: %w", class, err)
	}
	return f, nil
}

// Path returns the on-disk location for a class's artifact.
func (s *Store) Path(class models.StatClass) string {
	return filepath.Join(s.dir, string(class)+".model")
}
