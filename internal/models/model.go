package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ModelArtifact records the metadata of a trained ensemble. The serialized
// forest itself lives on disk at Path as an opaque blob; only one artifact
// per stat class is active at a time and retraining replaces it wholesale.
type ModelArtifact struct {
	ID          uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Class       StatClass       `db:"class" json:"class" validate:"required"`
	Version     string          `db:"version" json:"version" validate:"required"`
	Path        string          `db:"path" json:"path" validate:"required"`
	Trees       int             `db:"trees" json:"trees"`
	Samples     int             `db:"samples" json:"samples"`
	Metrics     json.RawMessage `db:"metrics" json:"metrics"`
	TrainedAt   time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active      bool            `db:"active" json:"active"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// IsActive checks if the artifact is the currently published model
func (m *ModelArtifact) IsActive() bool {
	return m.Active
}

// GetMetric retrieves a metric value from the Metrics JSON
func (m *ModelArtifact) GetMetric(name string) (interface{}, error) {
	if m.Metrics == nil {
		return nil, nil
	}

	var metrics map[string]interface{}
	if err := json.Unmarshal(m.Metrics, &metrics); err != nil {
		return nil, err
	}

	return metrics[name], nil
}
