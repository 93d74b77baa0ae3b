package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"rink-live-service/internal/domain/games"
	"rink-live-service/internal/metrics"
)

type recordingArchiver struct {
	saved []games.LiveGame
	err   error
}

func (a *recordingArchiver) SaveFinalGame(_ context.Context, g games.LiveGame) error {
	a.saved = append(a.saved, g)
	return a.err
}

func TestMeteredDelegates(t *testing.T) {
	inner := &recordingArchiver{}
	m := NewMetered(inner, "fs", metrics.NewRecorder())

	g := finalizedGame("g1", time.Now().UTC())
	if err := m.SaveFinalGame(context.Background(), g); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(inner.saved) != 1 || inner.saved[0].ID != "g1" {
		t.Fatalf("expected delegation, got %+v", inner.saved)
	}
}

func TestMeteredPropagatesErrors(t *testing.T) {
	wantErr := errors.New("backend down")
	m := NewMetered(&recordingArchiver{err: wantErr}, "redis", nil)

	err := m.SaveFinalGame(context.Background(), finalizedGame("g1", time.Now().UTC()))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
