package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader finds and reads the configuration file.
type Loader struct {
	Version      string // "dev" enables ./.playmakerrc
	OverridePath string
	Getenv       func(string) string
}

func NewLoader(version, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath, Getenv: os.Getenv}
}

// Load reads the first config file found, or defaults when there is none,
// then applies environment overrides. An explicit path that does not
// exist is an error.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	path, err := l.GetConfigPath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if cfg, err = Parse(f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if l.Getenv != nil {
		cfg.ApplyEnv(l.Getenv)
	}
	return cfg, nil
}

// GetConfigPath returns the config file to read, or "" if none exists.
func (l *Loader) GetConfigPath() (string, error) {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err != nil {
			return "", fmt.Errorf("config %s: %w", l.OverridePath, err)
		}
		return l.OverridePath, nil
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		local := filepath.Join(wd, ".playmakerrc")
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil
	}
	for _, name := range []string{"config.rc", "playmaker.rc"} {
		p := filepath.Join(home, ".config", "playmaker", name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}
