// Package config loads user settings from ~/.config/habits/config.yaml
// with HABITS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/julianstephens/habits/internal/constants"
)

// Config is the resolved application configuration.
type Config struct {
	// DataFile is a JSON path, a SQLite path, a postgres:// URL, or "keyring".
	DataFile string `mapstructure:"data_file" yaml:"data_file"`

	Debug bool `mapstructure:"debug" yaml:"debug"`

	// AutoBackup snapshots the data file before destructive commands.
	AutoBackup bool `mapstructure:"auto_backup" yaml:"auto_backup"`

	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DataFile:   constants.DefaultDataPath,
		AutoBackup: true,
		MaxBackups: constants.MaxBackups,
	}
}

// DefaultPath returns the expanded default config file location.
func DefaultPath() string {
	path, err := ExpandPath(constants.DefaultConfigFile)
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return path
}

func newViper(path string) *viper.Viper {
	def := Default()
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_file", def.DataFile)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("auto_backup", def.AutoBackup)
	v.SetDefault("max_backups", def.MaxBackups)
	return v
}

// Load reads the config file at path. A missing file is not an error:
// defaults apply, still overridable from the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	dataFile, err := ExpandPath(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	cfg.DataFile = dataFile

	if cfg.MaxBackups < 1 {
		return nil, fmt.Errorf("max_backups must be at least 1, got %d", cfg.MaxBackups)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("data_file", cfg.DataFile)
	v.Set("debug", cfg.Debug)
	v.Set("auto_backup", cfg.AutoBackup)
	v.Set("max_backups", cfg.MaxBackups)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// ExpandPath resolves a leading "~" to the user's home directory.
// Connection strings and the keyring marker pass through untouched.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
