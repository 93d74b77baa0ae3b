// Package archive persists finalized games handed off by the live game
// store. Two backends are provided: a filesystem archive with manifest
// and retention pruning, and a Redis archive for deployments that already
// run one.
package archive

import (
	"context"
	"time"

	"rink-live-service/internal/domain/games"
	"rink-live-service/internal/metrics"
)

// DateLayout defines the canonical date format (YYYY-MM-DD) used for
// archive partitioning and manifest keys.
const DateLayout = "2006-01-02"

// Archiver receives finalized games.
type Archiver interface {
	SaveFinalGame(ctx context.Context, game games.LiveGame) error
}

// Metered wraps an Archiver with recorder instrumentation.
type Metered struct {
	inner    Archiver
	backend  string
	recorder *metrics.Recorder
}

// NewMetered instruments an archiver; backend names the implementation in
// emitted metrics.
func NewMetered(inner Archiver, backend string, recorder *metrics.Recorder) *Metered {
	return &Metered{inner: inner, backend: backend, recorder: recorder}
}

func (m *Metered) SaveFinalGame(ctx context.Context, game games.LiveGame) error {
	start := time.Now()
	err := m.inner.SaveFinalGame(ctx, game)
	if m.recorder != nil {
		m.recorder.RecordArchiveSave(m.backend, time.Since(start), err)
	}
	return err
}
