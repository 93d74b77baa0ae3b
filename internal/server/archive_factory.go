package server

import (
	"log/slog"
	"strings"

	"rink-live-service/internal/archive"
	"rink-live-service/internal/config"
	"rink-live-service/internal/metrics"
	"rink-live-service/internal/store"
)

// buildArchive selects the archive backend from config. On a redis
// connection failure it falls back to the filesystem backend so finalize
// never loses its collaborator.
func buildArchive(cfg config.ArchiveConfig, logger *slog.Logger, recorder *metrics.Recorder) (store.Archiver, func() error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "redis" {
		redisArchive, err := archive.NewRedisArchive(cfg.RedisURL, cfg.RedisTTL)
		if err == nil {
			return archive.NewMetered(redisArchive, "redis", recorder), redisArchive.Close
		}
		if logger != nil {
			logger.Warn("redis archive unavailable, falling back to fs", "error", err)
		}
	}

	fsArchive := archive.NewFSArchive(cfg.Path, cfg.RetentionDays)
	return archive.NewMetered(fsArchive, "fs", recorder), func() error { return nil }
}
