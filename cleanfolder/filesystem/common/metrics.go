package common

import (
	"time"
)

// PassMetrics tracks the outcome of a single organizer pass
type PassMetrics struct {
	Name      string
	Processed int64
	Failed    int64
	Bytes     int64
	StartTime time.Time
	Duration  time.Duration
}

// NewPassMetrics starts timing a pass
func NewPassMetrics(name string) *PassMetrics {
	return &PassMetrics{Name: name, StartTime: time.Now()}
}

// Success counts one processed item
func (pm *PassMetrics) Success() {
	pm.Processed++
}

// Failure counts one failed item
func (pm *PassMetrics) Failure() {
	pm.Failed++
}

// AddBytes accumulates transferred or extracted bytes
func (pm *PassMetrics) AddBytes(n int64) {
	pm.Bytes += n
}

// Finish stamps the pass duration
func (pm *PassMetrics) Finish() {
	pm.Duration = time.Since(pm.StartTime)
}

// GetMetrics returns the pass metrics as a map
func (pm *PassMetrics) GetMetrics() map[string]interface{} {
	return map[string]interface{}{
		"pass":      pm.Name,
		"processed": pm.Processed,
		"failed":    pm.Failed,
		"bytes":     pm.Bytes,
		"duration":  pm.Duration,
	}
}
