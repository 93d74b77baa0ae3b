package config

import "time"

// CheckpointConfig controls the periodic live-game checkpoint loop.
type CheckpointConfig struct {
	Enabled  bool
	Path     string
	Interval time.Duration
}

func loadCheckpoint() CheckpointConfig {
	return CheckpointConfig{
		Enabled:  boolEnvOrDefault(envCheckpointEnabled, defaultCheckpointEnabled),
		Path:     envOrDefault(envCheckpointPath, defaultCheckpointPath),
		Interval: durationEnvOrDefault(envCheckpointInterval, defaultCheckpointInterval),
	}
}
