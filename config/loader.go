package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is looked up in the working directory and its parents
	ProjectConfigFile = "curriculens.yaml"
	// UserConfigDir holds the per-user file, relative to the home directory
	UserConfigDir = ".config/curriculens"
	// UserConfigFile is the per-user file name
	UserConfigFile = "config.yaml"
	// EnvConfig names an extra config file layered above the project file
	EnvConfig = "CURRICULENS_CONFIG"
)

// layer is one configuration source. Required layers must exist.
type layer struct {
	name     string
	path     string
	required bool
}

// Loader resolves the effective configuration from its layers
type Loader struct {
	logger *slog.Logger

	// home and workDir are overridable in tests
	home    string
	workDir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// layers lists the sources from lowest to highest precedence:
// user file, project file, $CURRICULENS_CONFIG, explicit file.
func (l *Loader) layers(explicit string) []layer {
	ls := []layer{
		{name: "user", path: l.userConfigPath()},
		{name: "project", path: l.findProjectConfig()},
	}
	if env := os.Getenv(EnvConfig); env != "" {
		ls = append(ls, layer{name: "env", path: env, required: true})
	}
	if explicit != "" {
		ls = append(ls, layer{name: "explicit", path: explicit, required: true})
	}
	return ls
}

// Load starts from DefaultConfig and decodes every layer on top of it, so a
// layer only overrides the keys it sets. A required layer that cannot be
// read fails the load; a broken optional layer is skipped with a warning.
// The result is validated.
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	for _, ly := range l.layers(explicit) {
		if ly.path == "" {
			continue
		}
		err := config.overlay(ly.path)
		switch {
		case err == nil:
			l.logger.Debug("Loaded config layer", slog.String("layer", ly.name), slog.String("path", ly.path))
		case ly.required:
			return nil, fmt.Errorf("%s config: %w", ly.name, err)
		case errors.Is(err, fs.ErrNotExist):
			l.logger.Debug("No config layer", slog.String("layer", ly.name))
		default:
			l.logger.Warn("Skipping config layer", slog.String("layer", ly.name), slog.String("path", ly.path), slog.String("error", err.Error()))
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig writes the defaults to the user file unless it exists
func (l *Loader) EnsureUserConfig() error {
	path := l.userConfigPath()
	if path == "" {
		return errors.New("cannot determine home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("Created default user config", slog.String("path", path))
	return nil
}

func (l *Loader) userConfigPath() string {
	home := l.home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks from the working directory up to the root and
// returns the first project file found
func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return ""
		}
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
