// Package config loads the client configuration from a TOML file and watches
// it for changes.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the client configuration. A missing file yields the defaults;
// flags may override individual fields afterwards.
type Config struct {
	// Path is where this configuration was loaded from (or would have been,
	// when the file does not exist yet). The live-reload watcher follows it.
	Path string `toml:"-"`

	ServerURL    string   `toml:"server_url"`
	Room         string   `toml:"room"`
	PollInterval duration `toml:"poll_interval"`
	Sound        bool     `toml:"sound"`
	LogFile      string   `toml:"log_file"`
	TokenFile    string   `toml:"token_file"`
}

// duration lets TOML carry values like "1s" or "500ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL:    "http://localhost:5000",
		Room:         "global",
		PollInterval: duration{time.Second},
		Sound:        true,
		LogFile:      "relic-client.log",
		TokenFile:    defaultTokenFile(),
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "relic-client.toml"
	}
	return filepath.Join(home, ".config", "relic-client", "config.toml")
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".relic-token"
	}
	return filepath.Join(home, ".config", "relic-client", "token.json")
}

// Load reads the config at path, or the defaults when the file is absent.
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.Path = path
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.PollInterval.Duration <= 0 {
		cfg.PollInterval = Default().PollInterval
	}
	return cfg, nil
}

// Interval returns the poll interval as a plain time.Duration.
func (c Config) Interval() time.Duration {
	return c.PollInterval.Duration
}
