package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DaemonConfig numeric fields are pointers so an explicit zero (for
// instance a midnight streak check) survives the default back-fill.
type DaemonConfig struct {
	DBPath                string `toml:"db_path"`
	HeartbeatSeconds      *int   `toml:"heartbeat_seconds"`
	SessionWarningMinutes *int   `toml:"session_warning_minutes"`
	StreakCheckHour       *int   `toml:"streak_check_hour"`
	StreakCheckMinute     int    `toml:"streak_check_minute"`
}

type BlockingConfig struct {
	DefaultSites []string `toml:"default_sites"`
}

type NotificationsConfig struct {
	TimeAlerts          *bool `toml:"time_alerts"`
	StreakAlerts        *bool `toml:"streak_alerts"`
	TimeAlertThresholds []int `toml:"time_alert_thresholds"`
}

type Config struct {
	Daemon        DaemonConfig        `toml:"daemon"`
	Blocking      BlockingConfig      `toml:"blocking"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// SetDefault fills any unset field with its default value.
func (c *Config) SetDefault() {
	if c.Daemon.DBPath == "" {
		c.Daemon.DBPath = defaultDBPath()
	}
	if c.Daemon.HeartbeatSeconds == nil {
		defaultVal := 30
		c.Daemon.HeartbeatSeconds = &defaultVal
	}
	if c.Daemon.SessionWarningMinutes == nil {
		defaultVal := 5
		c.Daemon.SessionWarningMinutes = &defaultVal
	}
	if c.Daemon.StreakCheckHour == nil {
		defaultVal := 20
		c.Daemon.StreakCheckHour = &defaultVal
	}
	if c.Blocking.DefaultSites == nil {
		c.Blocking.DefaultSites = []string{"twitter.com", "x.com"}
	}
	if c.Notifications.TimeAlerts == nil {
		defaultVal := true
		c.Notifications.TimeAlerts = &defaultVal
	}
	if c.Notifications.StreakAlerts == nil {
		defaultVal := true
		c.Notifications.StreakAlerts = &defaultVal
	}
	if c.Notifications.TimeAlertThresholds == nil {
		c.Notifications.TimeAlertThresholds = []int{15, 30, 60}
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "undrift.db"
	}
	return home + "/.local/share/undrift/undrift.db"
}

// LoadFromFile reads a TOML config, creating an empty file when absent
// so every field falls back to its default.
func LoadFromFile(path string) (*Config, error) {
	file, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg Config
	if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.SetDefault()
	return &cfg, nil
}

func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.SetDefault()
	return &cfg, nil
}
