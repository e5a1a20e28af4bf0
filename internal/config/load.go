package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/emberflow/ember/internal/constants"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// newViperInstance creates a viper instance with the Ember env prefix, key
// replacer, and defaults registered.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("EMBER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from all sources. Precedence, highest first:
//  1. Environment variables (EMBER_*)
//  2. Project config (.ember/config.yaml)
//  3. Global config (~/.ember/config.yaml)
//  4. Built-in defaults
//
// Missing config files are expected, never errors.
func Load() (*Config, error) {
	v := newViperInstance()

	if err := mergeConfigFile(v, globalConfigPath()); err != nil {
		return nil, err
	}
	if err := mergeConfigFile(v, ProjectConfigPath()); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, emberrors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, emberrors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// mergeConfigFile merges the file into v if it exists.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return emberrors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// isConfigNotFoundError reports whether err is viper's missing-file error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

// globalConfigPath returns ~/.ember/config.yaml, or empty when the home
// directory cannot be determined.
func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, constants.EmberHome, "config.yaml")
}

// ProjectConfigPath returns the project-local config path relative to the
// working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.EmberHome, "config.yaml")
}

// ResolveDataDir returns the effective data directory: the configured
// override, or ~/.ember.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", emberrors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.EmberHome), nil
}

// viperDecoderOption configures mapstructure to convert duration strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
