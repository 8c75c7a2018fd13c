package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about one ingestion run
type IngestionMetrics struct {
	mu                sync.RWMutex
	StartTime         time.Time
	Duration          time.Duration
	TotalRecords      int
	SuccessfulRecords int
	ValidationErrors  int
	Errors            int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalRecords = 0
	m.SuccessfulRecords = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordSuccess increments the successful record count
func (m *IngestionMetrics) RecordSuccess(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulRecords += count
}

// RecordTotal adds to the total fetched record count
func (m *IngestionMetrics) RecordTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalRecords += count
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// Snapshot returns a copy of the current counters
func (m *IngestionMetrics) Snapshot() (total, successful, validationErrors, errors int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.TotalRecords, m.SuccessfulRecords, m.ValidationErrors, m.Errors
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalRecords > 0 {
		successRate = float64(m.SuccessfulRecords) / float64(m.TotalRecords) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Total=%d, Successful=%d (%.1f%%), ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalRecords,
		m.SuccessfulRecords,
		successRate,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
