package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/oqabench/oqa/errors"
)

// UserConfigPath returns the path of the user config file (~/.oqa/config.toml).
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home directory")
	}
	return filepath.Join(home, ".oqa", "config.toml"), nil
}

// Persist writes cfg as TOML to path, creating parent directories as needed.
// An existing file is overwritten.
func Persist(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "create config directory for %s", path)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}
