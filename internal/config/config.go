// Package config reads the optional user config file. Everything has
// a default; a missing file is not an error.
package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/shotset/revscan/internal/storage"
)

// DefaultPath is the conventional config location.
const DefaultPath = "~/.config/revscan/config.yaml"

// Config are the user-tunable settings.
type Config struct {
	// StateFile overrides where session state is persisted.
	StateFile string `yaml:"state_file"`
	// SkipDirs extends the directories discovery never descends into.
	SkipDirs []string `yaml:"skip_dirs"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{StateFile: storage.DefaultPath}
}

// Load reads the config at path, falling back to defaults when the
// file does not exist. A tilde prefix is expanded against the home
// directory.
func Load(path string) (Config, error) {
	cfg := Default()

	expanded := path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, err
		}
		expanded = filepath.Join(home, path[1:])
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Debugf("no config at %s, using defaults", expanded)
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if cfg.StateFile == "" {
		cfg.StateFile = storage.DefaultPath
	}
	return cfg, nil
}
