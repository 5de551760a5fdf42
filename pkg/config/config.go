// Package config loads the mtimer YAML configuration file.
//
// A missing file yields Default(). Command-line flags are applied on top by
// each command after loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mtimer/mtimer-go/pkg/kvstore"
	"github.com/mtimer/mtimer-go/pkg/logging"
	"github.com/mtimer/mtimer-go/pkg/persistence"
)

// DefaultPath is the configuration file location relative to the home directory.
const DefaultPath = ".mtimer/config.yaml"

// Config is the full configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Persist PersistConfig `yaml:"persist"`
	Log     LogConfig     `yaml:"log"`
	Web     WebConfig     `yaml:"web"`
}

// StoreConfig selects the durable store.
type StoreConfig struct {
	// Driver is one of kvstore.Drivers.
	Driver string `yaml:"driver"`

	// Path is the file or directory of the store. A leading "~/" is
	// expanded to the home directory.
	Path string `yaml:"path"`
}

// PersistConfig controls snapshotting.
type PersistConfig struct {
	SaveInterval time.Duration `yaml:"save_interval"`
}

// LogConfig controls operational and event logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// EventLog is the path of the CBOR timer event log; empty disables it.
	EventLog string `yaml:"event_log"`
}

// WebConfig controls the HTTP front-end.
type WebConfig struct {
	Listen    string `yaml:"listen"`
	Advertise bool   `yaml:"advertise"`
	Interface string `yaml:"interface"`
	Instance  string `yaml:"instance"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver: kvstore.DriverFile,
			Path:   "~/.mtimer/timers.json",
		},
		Persist: PersistConfig{
			SaveInterval: persistence.DefaultSaveInterval,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Web: WebConfig{
			Listen:   ":8080",
			Instance: "mtimer",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandHome(path))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c Config) Save(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for unknown or out-of-range values.
func (c Config) Validate() error {
	var errs []error

	if !slices.Contains(kvstore.Drivers, c.Store.Driver) {
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q (want one of %s)",
			c.Store.Driver, strings.Join(kvstore.Drivers, ", ")))
	}
	if c.Store.Driver != kvstore.DriverMemory && c.Store.Driver != kvstore.DriverBadger &&
		c.Store.Driver != kvstore.DriverLevelDB && c.Store.Path == "" {
		errs = append(errs, fmt.Errorf("store.path: required for driver %q", c.Store.Driver))
	}
	if c.Persist.SaveInterval <= 0 {
		errs = append(errs, fmt.Errorf("persist.save_interval: must be positive, got %s", c.Persist.SaveInterval))
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Web.Advertise && c.Web.Instance == "" {
		errs = append(errs, errors.New("web.instance: required when advertising"))
	}

	return errors.Join(errs...)
}

// StorePath returns Store.Path with the home directory expanded.
func (c Config) StorePath() string {
	return ExpandHome(c.Store.Path)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
