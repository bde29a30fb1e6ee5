package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/natmri/bilicli/internal/errors"
)

const (
	configFileName = "config.yaml"

	// CookieEnv overrides the cookie stored in the config file.
	CookieEnv = "BILICLI_COOKIE"

	DefaultRefreshSchedule = "@every 1m"
	DefaultMaxEvents       = 5000
	DefaultFrameRate       = 60
	DefaultReconnectDelay  = 5 * time.Second
	DefaultAPIBase         = "https://api.live.bilibili.com"
)

// Config holds the application configuration
type Config struct {
	Cookie          string        `yaml:"cookie,omitempty"`           // Logged-in cookie string, enables sending danmu
	RefreshSchedule string        `yaml:"refresh_schedule,omitempty"` // Cron spec for room info refreshes
	MaxEvents       int           `yaml:"max_events"`                 // Event log cap, 0 keeps everything
	FrameRate       int           `yaml:"frame_rate,omitempty"`       // Redraws per second
	Notifications   bool          `yaml:"notifications,omitempty"`    // Desktop notifications for super chats and guard purchases
	ReconnectDelay  time.Duration `yaml:"reconnect_delay,omitempty"`  // Pause before redialing the live feed
	APIBase         string        `yaml:"api_base,omitempty"`         // Base URL of the live HTTP API

	mu sync.RWMutex
}

// Dir returns the path to the config directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bilicli"), nil
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		RefreshSchedule: DefaultRefreshSchedule,
		MaxEvents:       DefaultMaxEvents,
		FrameRate:       DefaultFrameRate,
		ReconnectDelay:  DefaultReconnectDelay,
		APIBase:         DefaultAPIBase,
	}
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields the defaults. The cookie environment variable
// takes precedence over the file.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.ConfigLoadFailed("~/.bilicli", err)
		}
		path = p
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.ConfigLoadFailed(path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.ConfigLoadFailed(path, err)
		}
	}

	cfg.applyDefaults()

	if cookie := strings.TrimSpace(os.Getenv(CookieEnv)); cookie != "" {
		cfg.Cookie = cookie
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values left by a partial file. MaxEvents is
// exempt because zero means unbounded.
func (c *Config) applyDefaults() {
	if c.RefreshSchedule == "" {
		c.RefreshSchedule = DefaultRefreshSchedule
	}
	if c.FrameRate == 0 {
		c.FrameRate = DefaultFrameRate
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	c.Cookie = strings.TrimSpace(c.Cookie)
}

// Validate checks the config for values the runtime cannot work with.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.FrameRate <= 0 {
		return errors.ConfigInvalid("frame_rate must be positive")
	}
	if c.MaxEvents < 0 {
		return errors.ConfigInvalid("max_events must not be negative")
	}
	if c.ReconnectDelay < 0 {
		return errors.ConfigInvalid("reconnect_delay must not be negative")
	}
	if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
		return errors.E(errors.Op("config.Validate"), errors.KindInvalid, "invalid refresh_schedule "+c.RefreshSchedule, err)
	}
	return nil
}

// SetCookie overrides the stored cookie, e.g. from a command-line flag.
func (c *Config) SetCookie(cookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Cookie = strings.TrimSpace(cookie)
}

// GetCookie returns the configured cookie, empty when not logged in.
func (c *Config) GetCookie() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Cookie
}

// FrameInterval is the time between two redraws.
func (c *Config) FrameInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Second / time.Duration(c.FrameRate)
}
