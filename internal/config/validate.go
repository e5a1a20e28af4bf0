package config

import (
	"github.com/rs/zerolog"

	emberrors "github.com/emberflow/ember/internal/errors"
)

// Validate checks configuration values for internal consistency. It returns
// ErrConfigInvalid-wrapped errors so callers can branch on the class.
func Validate(cfg *Config) error {
	if cfg == nil {
		return emberrors.ErrConfigNil
	}
	if cfg.Planner.HeavyCap < 0 {
		return emberrors.Wrapf(emberrors.ErrConfigInvalid, "planner.heavy_cap must be >= 0, got %d", cfg.Planner.HeavyCap)
	}
	if cfg.Planner.MaxSlices < 1 {
		return emberrors.Wrapf(emberrors.ErrConfigInvalid, "planner.max_slices must be >= 1, got %d", cfg.Planner.MaxSlices)
	}
	if cfg.Planner.MinSlices < 0 || cfg.Planner.MinSlices > cfg.Planner.MaxSlices {
		return emberrors.Wrapf(emberrors.ErrConfigInvalid,
			"planner.min_slices must be in [0, %d], got %d", cfg.Planner.MaxSlices, cfg.Planner.MinSlices)
	}
	if cfg.Planner.DefaultMinutes < 1 {
		return emberrors.Wrapf(emberrors.ErrConfigInvalid, "planner.default_minutes must be >= 1, got %d", cfg.Planner.DefaultMinutes)
	}
	if cfg.AI.Enabled && cfg.AI.Command == "" {
		return emberrors.Wrap(emberrors.ErrConfigInvalid, "ai.command is required when ai.enabled is set")
	}
	if cfg.AI.Timeout < 0 {
		return emberrors.Wrap(emberrors.ErrConfigInvalid, "ai.timeout must not be negative")
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return emberrors.Wrapf(emberrors.ErrConfigInvalid, "unknown log level %q", cfg.Log.Level)
	}
	if cfg.Log.MaxSizeMB < 1 {
		return emberrors.Wrapf(emberrors.ErrConfigInvalid, "log.max_size_mb must be >= 1, got %d", cfg.Log.MaxSizeMB)
	}
	if cfg.Log.MaxBackups < 0 {
		return emberrors.Wrapf(emberrors.ErrConfigInvalid, "log.max_backups must be >= 0, got %d", cfg.Log.MaxBackups)
	}
	return nil
}
