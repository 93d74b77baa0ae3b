// Package checkpoint periodically writes the set of non-completed live
// games to disk so a restarted process can re-seed its store.
package checkpoint

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"rink-live-service/internal/domain/games"
	"rink-live-service/internal/logging"
	"rink-live-service/internal/metrics"
)

const defaultInterval = 15 * time.Second

// Store exposes the live games eligible for checkpointing.
type Store interface {
	ListActiveGames() []games.LiveGame
}

// Snapshot is the on-disk checkpoint payload.
type Snapshot struct {
	SavedAt time.Time        `json:"savedAt"`
	Games   []games.LiveGame `json:"games"`
}

// Loop writes checkpoints on an interval until stopped.
type Loop struct {
	store    Store
	path     string
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	writeMu  sync.Mutex

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the checkpoint loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the loop has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a checkpoint loop with sane defaults.
func New(store Store, path string, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Loop{
		store:    store,
		path:     path,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins checkpointing until the context is cancelled or Stop is called.
func (l *Loop) Start(ctx context.Context) {
	l.startMu.Lock()
	if l.started {
		l.startMu.Unlock()
		return
	}
	l.started = true
	l.startMu.Unlock()

	l.ticker = time.NewTicker(l.interval)

	go func() {
		l.logInfo("checkpoint loop started", slog.Int64(logging.FieldDurationMS, l.interval.Milliseconds()))
		// Initial write so a fresh boot is recoverable immediately.
		l.writeOnce()

		for {
			select {
			case <-ctx.Done():
				l.stopTicker()
				l.logInfo("checkpoint loop stopped")
				return
			case <-l.done:
				l.stopTicker()
				l.logInfo("checkpoint loop stopped")
				return
			case <-l.ticker.C:
				l.writeOnce()
			}
		}
	}()
}

// Stop halts the checkpoint loop. A final write runs so the last
// committed state is on disk before shutdown.
func (l *Loop) Stop(ctx context.Context) error {
	_ = ctx
	l.stopOnce.Do(func() {
		close(l.done)
		l.stopTicker()
		l.writeOnce()
	})
	return nil
}

func (l *Loop) writeOnce() {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	start := time.Now()
	l.recordAttempt(start)

	active := l.store.ListActiveGames()
	snap := Snapshot{
		SavedAt: l.now().UTC(),
		Games:   active,
	}
	err := Write(l.path, snap)
	if l.metrics != nil {
		l.metrics.RecordCheckpointCycle(time.Since(start), err)
	}
	if err != nil {
		l.logError("checkpoint write failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		l.recordFailure(err, start)
		return
	}

	l.recordSuccess(start)
	l.logInfo("checkpoint written",
		logging.FieldCount, len(active),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

// Write persists a checkpoint atomically via tmp+rename.
func Write(path string, snap Snapshot) error {
	if path == "" {
		return os.ErrInvalid
	}
	if snap.Games == nil {
		snap.Games = []games.LiveGame{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a previously written checkpoint. A missing file yields an
// empty snapshot and no error.
func Load(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{Games: []games.LiveGame{}}, nil
		}
		return Snapshot{}, err
	}
	defer f.Close()
	var snap Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, err
	}
	if snap.Games == nil {
		snap.Games = []games.LiveGame{}
	}
	return snap, nil
}

func (l *Loop) stopTicker() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
}

func (l *Loop) logInfo(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

func (l *Loop) logError(msg string, err error, attrs ...any) {
	if l.logger != nil {
		l.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (l *Loop) recordAttempt(at time.Time) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.status.LastAttempt = at
}

func (l *Loop) recordSuccess(at time.Time) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.status.ConsecutiveFailures = 0
	l.status.LastError = ""
	l.status.LastSuccess = at
}

func (l *Loop) recordFailure(err error, at time.Time) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.status.ConsecutiveFailures++
	if err != nil {
		l.status.LastError = err.Error()
	}
	l.status.LastAttempt = at
}

// Status returns a snapshot of the loop's recent health.
func (l *Loop) Status() Status {
	l.statusMu.RLock()
	defer l.statusMu.RUnlock()
	return l.status
}
