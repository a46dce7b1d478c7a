package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/oqabench/oqa/errors"
)

// DefaultDirPermissions is used when creating ~/.oqa
const DefaultDirPermissions = 0755

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dataset.path", "")

	v.SetDefault("oracle.max_steps", 10)
	v.SetDefault("oracle.num_targets", 30)

	v.SetDefault("database.path", defaultDatabasePath())

	v.SetDefault("output.label", "Oracle")
	v.SetDefault("output.csv_path", "")
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "oqa.db"
	}
	return filepath.Join(home, ".oqa", "oqa.db")
}

// Load reads the oqa configuration from all sources.
func Load() (*Config, error) {
	return LoadWithViper(newViper())
}

// LoadWithViper unmarshals configuration from a prepared Viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, applying
// defaults underneath it.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", configPath)
	}
	return LoadWithViper(v)
}

// newViper builds a Viper instance with env binding, defaults, and the
// merged config files.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("OQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)
	return v
}

// findProjectConfig searches for oqa.toml by walking up the directory tree.
// Returns "" when no project config exists.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, "oqa.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges config files in precedence order:
// user (~/.oqa/config.toml) < project (oqa.toml) < env vars.
func mergeConfigFiles(v *viper.Viper) {
	var configPaths []string
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".oqa", "config.toml"))
	}
	if projectConfig := findProjectConfig(); projectConfig != "" {
		configPaths = append(configPaths, projectConfig)
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(configPath)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}
		for key, value := range fileViper.AllSettings() {
			v.Set(key, value)
		}
	}
}
