package config

import (
	"github.com/spf13/viper"

	"github.com/emberflow/ember/internal/constants"
)

// DefaultMinuteBudget is the fallback budget for time-based plans.
const DefaultMinuteBudget = 120

// setDefaults registers the built-in defaults on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")

	v.SetDefault("planner.heavy_cap", constants.DefaultHeavyCap)
	v.SetDefault("planner.max_slices", constants.DefaultMaxSlices)
	v.SetDefault("planner.min_slices", constants.DefaultMinSlices)
	v.SetDefault("planner.default_minutes", DefaultMinuteBudget)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.command", "claude")
	v.SetDefault("ai.args", []string{"-p"})
	v.SetDefault("ai.timeout", constants.DefaultDecomposeTimeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", true)
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
}

// DefaultConfig returns the built-in defaults as a Config.
func DefaultConfig() *Config {
	return &Config{
		Planner: PlannerConfig{
			HeavyCap:       constants.DefaultHeavyCap,
			MaxSlices:      constants.DefaultMaxSlices,
			MinSlices:      constants.DefaultMinSlices,
			DefaultMinutes: DefaultMinuteBudget,
		},
		AI: AIConfig{
			Enabled: false,
			Command: "claude",
			Args:    []string{"-p"},
			Timeout: constants.DefaultDecomposeTimeout,
		},
		Log: LogConfig{
			Level:      "info",
			File:       true,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
