package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"rink-live-service/internal/checkpoint"
	"rink-live-service/internal/config"
	domaingames "rink-live-service/internal/domain/games"
	"rink-live-service/internal/domain/players"
	"rink-live-service/internal/domain/teams"
	"rink-live-service/internal/metrics"
	"rink-live-service/internal/store"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Port:         "0",
		SeedFixtures: false,
		Checkpoint: config.CheckpointConfig{
			Enabled:  false,
			Path:     filepath.Join(dir, "checkpoint", "live.json"),
			Interval: time.Minute,
		},
		Archive: config.ArchiveConfig{
			Backend:       "fs",
			Path:          filepath.Join(dir, "archive"),
			Timeout:       time.Second,
			RetentionDays: 7,
		},
		Metrics: config.MetricsConfig{Enabled: false},
	}
}

func TestNewServerWiring(t *testing.T) {
	srv := newServerWithMetrics(testConfig(t), nil, metrics.NewRecorder())

	if srv.store == nil || srv.gamesService == nil || srv.httpServer == nil {
		t.Fatal("expected store, service and http server wired")
	}
	if srv.checkpointer != nil {
		t.Fatal("expected no checkpointer when disabled")
	}
	if srv.Handler() == nil {
		t.Fatal("expected handler")
	}
}

func TestNewServerWithCheckpointer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Checkpoint.Enabled = true

	srv := newServerWithMetrics(cfg, nil, metrics.NewRecorder())

	if srv.checkpointer == nil {
		t.Fatal("expected checkpointer when enabled")
	}
}

func TestSeedStoreFixtures(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFixtures = true
	liveStore := store.NewLiveGameStore(nil, time.Second)

	seedStore(cfg, liveStore, nil)

	if _, ok := liveStore.GetGame("fixture-1"); !ok {
		t.Fatal("expected fixture-1 seeded")
	}
	if _, ok := liveStore.GetGame("fixture-2"); !ok {
		t.Fatal("expected fixture-2 seeded")
	}
}

func TestSeedStoreRestoresCheckpoint(t *testing.T) {
	cfg := testConfig(t)
	cfg.Checkpoint.Enabled = true
	snap := checkpoint.Snapshot{
		SavedAt: time.Now(),
		Games: []domaingames.LiveGame{
			{ID: "g1", RinkID: "rink-main", Status: domaingames.StatusInProgress},
			{ID: "done", RinkID: "rink-main", Status: domaingames.StatusCompleted},
		},
	}
	if err := checkpoint.Write(cfg.Checkpoint.Path, snap); err != nil {
		t.Fatalf("checkpoint write failed: %v", err)
	}

	liveStore := store.NewLiveGameStore(nil, time.Second)
	seedStore(cfg, liveStore, nil)

	if _, ok := liveStore.GetGame("g1"); !ok {
		t.Fatal("expected in-progress game restored")
	}
	if _, ok := liveStore.GetGame("done"); ok {
		t.Fatal("expected completed game skipped on restore")
	}
}

func TestSeedStoreDoesNotOverwriteRestoredGames(t *testing.T) {
	cfg := testConfig(t)
	cfg.Checkpoint.Enabled = true
	cfg.SeedFixtures = true
	restored := domaingames.LiveGame{
		ID:       "fixture-1",
		RinkID:   "rink-main",
		Status:   domaingames.StatusInProgress,
		HomeTeam: teams.Team{ID: "h", Score: 4},
	}
	snap := checkpoint.Snapshot{SavedAt: time.Now(), Games: []domaingames.LiveGame{restored}}
	if err := checkpoint.Write(cfg.Checkpoint.Path, snap); err != nil {
		t.Fatalf("checkpoint write failed: %v", err)
	}

	liveStore := store.NewLiveGameStore(nil, time.Second)
	seedStore(cfg, liveStore, nil)

	g, ok := liveStore.GetGame("fixture-1")
	if !ok {
		t.Fatal("expected game present")
	}
	if g.HomeTeam.Score != 4 {
		t.Fatalf("expected restored game kept over fixture, got score %d", g.HomeTeam.Score)
	}
}

func TestServerHandlesFullGameLifecycle(t *testing.T) {
	srv := newServerWithMetrics(testConfig(t), nil, metrics.NewRecorder())
	handler := srv.Handler()

	game := domaingames.LiveGame{
		ID:     "g1",
		RinkID: "rink-main",
		Status: domaingames.StatusInProgress,
		Players: []players.GamePlayer{
			{ID: "p1", Name: "Sam Carter", Team: teams.SideHome, Position: players.PositionCenter},
		},
	}
	payload, _ := json.Marshal(game)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/games", bytes.NewReader(payload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed with %d: %s", rec.Code, rec.Body.String())
	}

	upd, _ := json.Marshal(domaingames.StatUpdate{PlayerID: "p1", Type: domaingames.StatGoal, Value: 1})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/games/g1/events", bytes.NewReader(upd)))
	if rec.Code != http.StatusOK {
		t.Fatalf("stat update failed with %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/games/g1/finalize", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("finalize failed with %d: %s", rec.Code, rec.Body.String())
	}

	var final domaingames.LiveGame
	if err := json.NewDecoder(rec.Body).Decode(&final); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if final.Status != domaingames.StatusCompleted || final.HomeTeam.Score != 1 {
		t.Fatalf("unexpected final game: %+v", final)
	}
}

type stubCheckpointer struct {
	started bool
	stopped bool
}

func (s *stubCheckpointer) Start(context.Context)      { s.started = true }
func (s *stubCheckpointer) Stop(context.Context) error { s.stopped = true; return nil }
func (s *stubCheckpointer) Status() checkpoint.Status  { return checkpoint.Status{} }

type stubHTTPServer struct {
	listened bool
	shutdown bool
}

func (s *stubHTTPServer) ListenAndServe() error          { s.listened = true; return http.ErrServerClosed }
func (s *stubHTTPServer) Shutdown(context.Context) error { s.shutdown = true; return nil }
func (s *stubHTTPServer) Addr() string                   { return ":0" }
func (s *stubHTTPServer) Handler() http.Handler          { return nil }

func TestRunStartsAndStops(t *testing.T) {
	cfg := testConfig(t)
	httpSrv := &stubHTTPServer{}
	cp := &stubCheckpointer{}
	srv := newServerWithDeps(cfg, nil, nil, httpSrv, cp)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}

	if !cp.started || !cp.stopped {
		t.Fatalf("expected checkpointer started and stopped, got %+v", cp)
	}
	if !httpSrv.shutdown {
		t.Fatal("expected http server shutdown")
	}
}

func TestBuildArchiveFallsBackToFS(t *testing.T) {
	cfg := testConfig(t).Archive
	cfg.Backend = "redis"
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	archiver, closeFn := buildArchive(cfg, nil, nil)
	defer func() { _ = closeFn() }()

	if archiver == nil {
		t.Fatal("expected fs fallback archiver")
	}
	g := domaingames.LiveGame{ID: "g1", Status: domaingames.StatusCompleted, UpdatedAt: time.Now().UTC()}
	if err := archiver.SaveFinalGame(context.Background(), g); err != nil {
		t.Fatalf("fallback archive save failed: %v", err)
	}
}
