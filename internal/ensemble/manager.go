package ensemble

import (
	"errors"
	"sync"

	"github.com/yourusername/wicket-predictor/internal/models"
)

// Manager holds the currently published forest per stat class. Publishing
// swaps the whole forest under the lock, so concurrent readers either see
// the old model or the new one, never a mix.
type Manager struct {
	mu      sync.RWMutex
	forests map[models.StatClass]*Forest
}

// NewManager creates an empty model manager.
func NewManager() *Manager {
	return &Manager{forests: make(map[models.StatClass]*Forest)}
}

// Publish replaces the active forest for the forest's class.
func (m *Manager) Publish(f *Forest) {
	if f == nil {
		return
	}
	m.mu.Lock()
	m.forests[f.Class] = f
	m.mu.Unlock()
}

// Forest returns the active forest for a class, or ErrModelNotTrained when
// nothing has been published yet.
func (m *Manager) Forest(class models.StatClass) (*Forest, error) {
	m.mu.RLock()
	f := m.forests[class]
	m.mu.RUnlock()
	if f == nil {
		return nil, models.ErrModelNotTrained
	}
	return f, nil
}

// Loaded reports whether at least one forest has been published.
func (m *Manager) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.forests) > 0
}

// LoadAll publishes every stored artifact that exists. Classes without a
// stored model are skipped; the first storage failure aborts.
func (m *Manager) LoadAll(store *Store) error {
	for _, class := range models.AllClasses {
		f, err := store.Load(class)
		if err != nil {
			if errors.Is(err, models.ErrModelNotTrained) {
				continue
			}
			return err
		}
		m.Publish(f)
	}
	return nil
}
