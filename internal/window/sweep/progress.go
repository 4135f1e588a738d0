package sweep

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks how many offsets and batches a sweep has evaluated.
// Safe for concurrent use by the batch workers.
type Progress struct {
	totalOffsets     int
	totalBatches     int
	processedOffsets int
	processedBatches int
	violations       int
	startTime        time.Time
	lastUpdate       time.Time

	mu sync.RWMutex
}

// NewProgress creates a progress tracker for a sweep of totalOffsets in totalBatches.
func NewProgress(totalOffsets, totalBatches int) *Progress {
	now := time.Now()
	return &Progress{
		totalOffsets: totalOffsets,
		totalBatches: totalBatches,
		startTime:    now,
		lastUpdate:   now,
	}
}

// add records one finished batch.
func (p *Progress) add(offsets, violations int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processedOffsets += offsets
	p.processedBatches++
	p.violations += violations
	p.lastUpdate = time.Now()
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percentLocked()
}

// Snapshot returns an immutable copy of the current state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.startTime)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(p.processedOffsets) / secs
	}

	return Snapshot{
		TotalOffsets:     p.totalOffsets,
		ProcessedOffsets: p.processedOffsets,
		TotalBatches:     p.totalBatches,
		ProcessedBatches: p.processedBatches,
		Violations:       p.violations,
		PercentComplete:  p.percentLocked(),
		Elapsed:          elapsed,
		OffsetsPerSecond: rate,
		Complete:         p.processedOffsets >= p.totalOffsets,
	}
}

func (p *Progress) percentLocked() float64 {
	if p.totalOffsets == 0 {
		return 0
	}
	return float64(p.processedOffsets) / float64(p.totalOffsets) * percentMultiplier
}

// Snapshot is a point-in-time copy of Progress.
type Snapshot struct {
	TotalOffsets     int           `json:"total_offsets"     yaml:"total_offsets"`
	ProcessedOffsets int           `json:"processed_offsets" yaml:"processed_offsets"`
	TotalBatches     int           `json:"total_batches"     yaml:"total_batches"`
	ProcessedBatches int           `json:"processed_batches" yaml:"processed_batches"`
	Violations       int           `json:"violations"        yaml:"violations"`
	PercentComplete  float64       `json:"percent_complete"  yaml:"percent_complete"`
	Elapsed          time.Duration `json:"elapsed_ns"        yaml:"elapsed_ns"`
	OffsetsPerSecond float64       `json:"offsets_per_second" yaml:"offsets_per_second"`
	// Complete is true once every offset has been evaluated.
	Complete         bool          `json:"complete"          yaml:"complete"`
}
