package server

import (
	"context"
	"log/slog"
	"net/http"

	appgames "rink-live-service/internal/app/games"
	"rink-live-service/internal/checkpoint"
	"rink-live-service/internal/config"
	"rink-live-service/internal/fixture"
	httpserver "rink-live-service/internal/http"
	"rink-live-service/internal/http/handlers"
	"rink-live-service/internal/http/middleware"
	"rink-live-service/internal/logging"
	"rink-live-service/internal/metrics"
	"rink-live-service/internal/store"
)

var metricsSetup = metrics.Setup

// Checkpointer abstracts the checkpoint loop for testing.
type Checkpointer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() checkpoint.Status
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.LiveGameStore
	gamesService  *appgames.Service
	httpServer    httpServer
	metricsServer httpServer
	checkpointer  Checkpointer
	archiveClose  func() error
	metricsStop   func(context.Context) error
}

// New constructs a server with default archive and checkpoint wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	archiver, archiveClose := buildArchive(cfg.Archive, logger, recorder)
	liveStore := store.NewLiveGameStore(archiver, cfg.Archive.Timeout)
	gameSvc := appgames.NewService(appgames.NewInstrumentedStore(liveStore, recorder))

	seedStore(cfg, liveStore, logger)

	var cp Checkpointer
	if cfg.Checkpoint.Enabled {
		cp = checkpoint.New(liveStore, cfg.Checkpoint.Path, logger, recorder, cfg.Checkpoint.Interval)
	}

	httpSrv := buildHTTPServer(cfg, gameSvc, logger, recorder, cp)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         liveStore,
		gamesService:  gameSvc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		checkpointer:  cp,
		archiveClose:  archiveClose,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, gameSvc *appgames.Service, httpSrv httpServer, cp Checkpointer) *Server {
	return &Server{
		cfg:          cfg,
		logger:       logger,
		gamesService: gameSvc,
		httpServer:   httpSrv,
		checkpointer: cp,
	}
}

// seedStore restores checkpointed games and optionally loads fixtures.
func seedStore(cfg config.Config, liveStore *store.LiveGameStore, logger *slog.Logger) {
	if cfg.Checkpoint.Enabled {
		snap, err := checkpoint.Load(cfg.Checkpoint.Path)
		if err != nil {
			logging.Error(logger, "checkpoint restore failed", err)
		} else {
			restored := 0
			for _, g := range snap.Games {
				if g.Completed() {
					continue
				}
				if err := liveStore.PutGame(g); err != nil {
					logging.Error(logger, "checkpoint game restore failed", err, logging.FieldGameID, g.ID)
					continue
				}
				restored++
			}
			if restored > 0 {
				logging.Info(logger, "restored games from checkpoint", logging.FieldCount, restored)
			}
		}
	}

	if cfg.SeedFixtures {
		for _, g := range fixture.New().Games() {
			if _, ok := liveStore.GetGame(g.ID); ok {
				continue
			}
			if err := liveStore.PutGame(g); err != nil {
				logging.Error(logger, "fixture seed failed", err, logging.FieldGameID, g.ID)
			}
		}
	}
}

func buildHTTPServer(cfg config.Config, gameSvc *appgames.Service, logger *slog.Logger, recorder *metrics.Recorder, cp Checkpointer) httpServer {
	var statusFn func() checkpoint.Status
	if cp != nil {
		statusFn = cp.Status
	}

	handler := handlers.NewHandler(gameSvc, logger, statusFn)
	router := httpserver.NewRouter(handler)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the checkpoint loop and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.checkpointer != nil {
		s.checkpointer.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.checkpointer != nil {
		if err := s.checkpointer.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop checkpoint loop", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.archiveClose != nil {
		if err := s.archiveClose(); err != nil && s.logger != nil {
			s.logger.Warn("archive close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
