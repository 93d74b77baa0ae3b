package config

import "time"

const (
	envPort               = "PORT"
	envSeedFixtures       = "SEED_FIXTURES"
	envCheckpointEnabled  = "CHECKPOINT_ENABLED"
	envCheckpointPath     = "CHECKPOINT_PATH"
	envCheckpointInterval = "CHECKPOINT_INTERVAL"
	envArchiveBackend     = "ARCHIVE_BACKEND"
	envArchivePath        = "ARCHIVE_PATH"
	envArchiveTimeout     = "ARCHIVE_TIMEOUT"
	envArchiveRetention   = "ARCHIVE_RETENTION_DAYS"
	envRedisURL           = "REDIS_URL"
	envRedisTTL           = "ARCHIVE_REDIS_TTL"
	envMetricsPort        = "METRICS_PORT"
	envMetricsOn          = "METRICS_ENABLED"
	envOtelEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService        = "OTEL_SERVICE_NAME"
	envOtelInsecure       = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort         = "4000"
	defaultSeedFixtures = false
	defaultMetricsPort  = "9090"

	defaultCheckpointEnabled  = true
	defaultCheckpointPath     = "data/checkpoint/live.json"
	defaultCheckpointInterval = 15 * Duration(time.Second)

	// Filesystem archive is the default; redis requires REDIS_URL.
	defaultArchiveBackend   = "fs"
	defaultArchivePath      = "data/archive"
	defaultArchiveTimeout   = 5 * Duration(time.Second)
	defaultArchiveRetention = 30
	defaultRedisTTL         = 30 * 24 * Duration(time.Hour)
)
