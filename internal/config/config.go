// Package config provides layered configuration for Ember. Values are read
// from environment variables (EMBER_* prefix), a project-local
// .ember/config.yaml, the global ~/.ember/config.yaml, and built-in
// defaults, in that precedence order.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	// DataDir overrides where Ember keeps its records. Empty uses ~/.ember.
	DataDir string `mapstructure:"data_dir"`

	// Planner tunes daily plan construction.
	Planner PlannerConfig `mapstructure:"planner"`

	// AI configures the optional decomposition backend.
	AI AIConfig `mapstructure:"ai"`

	// Log configures logging behavior.
	Log LogConfig `mapstructure:"log"`
}

// PlannerConfig tunes plan construction.
type PlannerConfig struct {
	// HeavyCap bounds heavy items per time-budgeted plan.
	HeavyCap int `mapstructure:"heavy_cap"`

	// MaxSlices is the hard upper bound on slices per plan.
	MaxSlices int `mapstructure:"max_slices"`

	// MinSlices is the representation floor for the balance pass.
	MinSlices int `mapstructure:"min_slices"`

	// DefaultMinutes is the minute budget used when a time-based plan is
	// requested without an explicit budget.
	DefaultMinutes int `mapstructure:"default_minutes"`
}

// AIConfig configures the external decomposition CLI.
type AIConfig struct {
	// Enabled turns the AI backend on. When off, decomposition always uses
	// the local template.
	Enabled bool `mapstructure:"enabled"`

	// Command is the CLI binary to invoke, e.g. "claude".
	Command string `mapstructure:"command"`

	// Args precede the prompt on the command line.
	Args []string `mapstructure:"args"`

	// Timeout bounds one invocation.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level is the zerolog level name (trace, debug, info, warn, error).
	Level string `mapstructure:"level"`

	// File enables rotating file output under the data dir when set.
	File bool `mapstructure:"file"`

	// MaxSizeMB is the rotation threshold for the log file.
	MaxSizeMB int `mapstructure:"max_size_mb"`

	// MaxBackups is how many rotated files to keep.
	MaxBackups int `mapstructure:"max_backups"`
}
