package metrics

import (
	"sync"
	"time"
)

type statTypeStats struct {
	applied         int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about store operations.
// It is intentionally simple so it can be swapped for a real backend later.
type Recorder struct {
	mu             sync.Mutex
	stats          map[string]*statTypeStats
	finalizes      int
	finalizeErrors int
	otel           *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*statTypeStats),
		otel:  otel,
	}
}

// RecordStatUpdate increments counters for a stat update and stores the last observed latency.
func (r *Recorder) RecordStatUpdate(statType string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	stats := r.ensureStats(statType)
	r.mu.Lock()
	stats.applied++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordStatUpdate(statType, duration, err)
	}
}

// RecordFinalize tracks finalize attempts and failures.
func (r *Recorder) RecordFinalize(duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.finalizes++
	if err != nil {
		r.finalizeErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFinalize(duration, err)
	}
}

// RecordArchiveSave tracks archive hand-offs by backend.
func (r *Recorder) RecordArchiveSave(backend string, duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordArchiveSave(backend, duration, err)
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordCheckpointCycle tracks checkpoint cycles and errors.
func (r *Recorder) RecordCheckpointCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordCheckpoint(duration, err)
}

// Snapshot is a copy of the current counters for a stat type.
type Snapshot struct {
	Applied         int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(statType string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[statType]; ok && stats != nil {
		return Snapshot{
			Applied:         stats.applied,
			Errors:          stats.errors,
			LastCallLatency: stats.lastCallLatency,
		}
	}
	return Snapshot{}
}

// StatUpdates returns the total updates recorded for a stat type.
func (r *Recorder) StatUpdates(statType string) int {
	return r.Snapshot(statType).Applied
}

// StatUpdateErrors returns the total failed updates recorded for a stat type.
func (r *Recorder) StatUpdateErrors(statType string) int {
	return r.Snapshot(statType).Errors
}

// Finalizes returns the total finalize attempts and failures recorded.
func (r *Recorder) Finalizes() (attempts, failures int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalizes, r.finalizeErrors
}

func (r *Recorder) ensureStats(statType string) *statTypeStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[statType]
	if !ok {
		stats = &statTypeStats{}
		r.stats[statType] = stats
	}
	return stats
}
