package config

// Config holds runtime configuration for the server.
type Config struct {
	Port         string
	SeedFixtures bool
	Checkpoint   CheckpointConfig
	Archive      ArchiveConfig
	Metrics      MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		SeedFixtures: boolEnvOrDefault(envSeedFixtures, defaultSeedFixtures),
		Checkpoint:   loadCheckpoint(),
		Archive:      loadArchive(),
		Metrics:      loadMetrics(),
	}
}
