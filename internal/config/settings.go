package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/gorewood/dash/internal/envfile"
	"github.com/gorewood/dash/internal/output"
)

// File names inside the data directory.
const (
	SettingsFileName = "config.yaml"
	EnvFileName      = "env"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// DefaultTimeFormat is the layout used for timestamps in human output.
const DefaultTimeFormat = "2006-01-02 15:04"

// Settings is the resolved dash configuration.
// Precedence: environment > env file > config.yaml > defaults.
type Settings struct {
	Dir        string `yaml:"-"`
	Store      string `yaml:"store,omitempty"       env:"DASH_STORE"`
	Color      string `yaml:"color,omitempty"       env:"DASH_COLOR"`
	TimeFormat string `yaml:"time_format,omitempty" env:"DASH_TIME_FORMAT"`
}

// Defaults returns the built-in settings for dir.
func Defaults(dir string) *Settings {
	return &Settings{
		Dir:        dir,
		Store:      StoreFile,
		Color:      output.ColorAuto,
		TimeFormat: DefaultTimeFormat,
	}
}

// Load resolves settings for the data directory returned by Dir.
func Load() (*Settings, error) {
	dir := Dir()
	if dir == "" {
		return nil, output.NewSystemError("cannot determine data directory; set DASH_HOME")
	}
	return LoadFrom(dir, env.ToMap(os.Environ()))
}

// LoadFrom resolves settings for dir against the given environment.
func LoadFrom(dir string, environ map[string]string) (*Settings, error) {
	settings := Defaults(dir)

	if err := loadSettingsFile(filepath.Join(dir, SettingsFileName), settings); err != nil {
		return nil, err
	}

	fileVars, err := envfile.Read(filepath.Join(dir, EnvFileName))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read env file", err)
	}

	opts := env.Options{Environment: envfile.Merge(environ, fileVars)}
	if err := env.ParseWithOptions(settings, opts); err != nil {
		return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid environment: %v", err), err)
	}

	if err := settings.Validate(); err != nil {
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}
	return settings, nil
}

// loadSettingsFile overlays config.yaml onto settings. A missing file is not an error.
func loadSettingsFile(path string, settings *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return output.NewSystemErrorWithCause("failed to read "+path, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return output.NewUserErrorWithCause(fmt.Sprintf("failed to parse %s: %v", path, err), err)
	}
	return nil
}

// Validate checks that every setting holds an accepted value.
func (s *Settings) Validate() error {
	switch s.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("invalid store %q (want %s or %s)", s.Store, StoreFile, StoreSQLite)
	}

	mode, err := output.ParseColorMode(s.Color)
	if err != nil {
		return err
	}
	s.Color = mode

	if s.TimeFormat == "" {
		s.TimeFormat = DefaultTimeFormat
	}
	return nil
}
