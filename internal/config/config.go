// Package config loads client settings from defaults, a TOML file and the
// environment. Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/tododash/internal/logging"
)

const (
	DefaultServer   = "http://localhost:8080"
	DefaultTimeout  = 10 * time.Second
	DefaultTheme    = "classic"
	DefaultLogLevel = "info"

	fileName = "config.toml"
	appDir   = "todo"
)

// Duration lets TOML carry "10s" style values.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Server   string   `toml:"server"`
	Timeout  Duration `toml:"timeout"`
	Theme    string   `toml:"theme"`
	LogLevel string   `toml:"log_level"`
	LogFile  string   `toml:"log_file"`
	NoColor  bool     `toml:"no_color"`
}

func Default() *Config {
	return &Config{
		Server:   DefaultServer,
		Timeout:  Duration{DefaultTimeout},
		Theme:    DefaultTheme,
		LogLevel: DefaultLogLevel,
	}
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. Config file (path, or the user config dir when path is empty)
// 3. Environment variables
//
// An explicit path that does not exist is an error; a missing user file is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = UserFile()
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	return cfg, nil
}

// UserFile is <user config dir>/todo/config.toml, or "" if there is none.
func UserFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir, fileName)
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv("TODO_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("TODO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TODO_TIMEOUT: %w", err)
		}
		cfg.Timeout = Duration{d}
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	// NO_COLOR is honoured when set to anything non-empty.
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.NoColor = true
	}
	if v := os.Getenv("TODO_NO_COLOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TODO_NO_COLOR: %w", err)
		}
		cfg.NoColor = b
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server: %q is not an http(s) URL", c.Server)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout: must be positive, got %s", c.Timeout)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("theme: unknown theme %q (classic|neon|mono)", c.Theme)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	return nil
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
