package config

import "time"

// ArchiveConfig selects and tunes the finalized-game archive backend.
type ArchiveConfig struct {
	Backend       string // fs|redis
	Path          string // base path for the fs backend
	Timeout       time.Duration
	RetentionDays int
	RedisURL      string
	RedisTTL      time.Duration
}

func loadArchive() ArchiveConfig {
	return ArchiveConfig{
		Backend:       envOrDefault(envArchiveBackend, defaultArchiveBackend),
		Path:          envOrDefault(envArchivePath, defaultArchivePath),
		Timeout:       durationEnvOrDefault(envArchiveTimeout, defaultArchiveTimeout),
		RetentionDays: intEnvOrDefault(envArchiveRetention, defaultArchiveRetention),
		RedisURL:      envOrDefault(envRedisURL, ""),
		RedisTTL:      durationEnvOrDefault(envRedisTTL, defaultRedisTTL),
	}
}
