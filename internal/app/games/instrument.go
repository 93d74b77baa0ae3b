package games

import (
	"context"
	"time"

	domaingames "rink-live-service/internal/domain/games"
	"rink-live-service/internal/metrics"
)

// InstrumentedStore decorates a Store with recorder metrics for the two
// mutating operations.
type InstrumentedStore struct {
	inner    Store
	recorder *metrics.Recorder
}

// NewInstrumentedStore wraps a store; a nil recorder records nothing.
func NewInstrumentedStore(inner Store, recorder *metrics.Recorder) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, recorder: recorder}
}

func (s *InstrumentedStore) ListGames(rinkID string) []domaingames.LiveGame {
	return s.inner.ListGames(rinkID)
}

func (s *InstrumentedStore) GetGame(id string) (domaingames.LiveGame, bool) {
	return s.inner.GetGame(id)
}

func (s *InstrumentedStore) PutGame(g domaingames.LiveGame) error {
	return s.inner.PutGame(g)
}

func (s *InstrumentedStore) ApplyStatUpdate(gameID string, upd domaingames.StatUpdate) (domaingames.LiveGame, error) {
	start := time.Now()
	g, err := s.inner.ApplyStatUpdate(gameID, upd)
	s.recorder.RecordStatUpdate(string(upd.Type), time.Since(start), err)
	return g, err
}

func (s *InstrumentedStore) FinalizeGame(ctx context.Context, gameID string) (domaingames.LiveGame, error) {
	start := time.Now()
	g, err := s.inner.FinalizeGame(ctx, gameID)
	s.recorder.RecordFinalize(time.Since(start), err)
	return g, err
}
