package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetDefault(t *testing.T) {
	var cfg Config
	cfg.SetDefault()

	assert.NotEmpty(t, cfg.Daemon.DBPath)
	assert.Equal(t, 30, *cfg.Daemon.HeartbeatSeconds)
	assert.Equal(t, 5, *cfg.Daemon.SessionWarningMinutes)
	assert.Equal(t, 20, *cfg.Daemon.StreakCheckHour)
	assert.Equal(t, 0, cfg.Daemon.StreakCheckMinute)
	assert.Equal(t, []string{"twitter.com", "x.com"}, cfg.Blocking.DefaultSites)
	assert.Equal(t, true, *cfg.Notifications.TimeAlerts)
	assert.Equal(t, true, *cfg.Notifications.StreakAlerts)
	assert.Equal(t, []int{15, 30, 60}, cfg.Notifications.TimeAlertThresholds)
}

func TestSetDefault_KeepsExplicitValues(t *testing.T) {
	off := false
	heartbeat := 10
	cfg := Config{
		Daemon:        DaemonConfig{HeartbeatSeconds: &heartbeat},
		Blocking:      BlockingConfig{DefaultSites: []string{"news.ycombinator.com"}},
		Notifications: NotificationsConfig{TimeAlerts: &off},
	}
	cfg.SetDefault()

	assert.Equal(t, 10, *cfg.Daemon.HeartbeatSeconds)
	assert.Equal(t, []string{"news.ycombinator.com"}, cfg.Blocking.DefaultSites)
	assert.False(t, *cfg.Notifications.TimeAlerts, "an explicit false must not be flipped back to the default")
}

func TestSetDefault_ZeroIsAValue(t *testing.T) {
	tomlData := `
[daemon]
streak_check_hour = 0
session_warning_minutes = 0
`
	cfg, err := LoadFromBytes([]byte(tomlData))
	assert.NoError(t, err)

	assert.Equal(t, 0, *cfg.Daemon.StreakCheckHour, "a midnight streak check must survive the back-fill")
	assert.Equal(t, 0, *cfg.Daemon.SessionWarningMinutes)
	assert.Equal(t, 30, *cfg.Daemon.HeartbeatSeconds, "absent fields still get defaults")
}

func TestLoadFromBytes(t *testing.T) {
	tomlData := `
[daemon]
heartbeat_seconds = 15
session_warning_minutes = 2
streak_check_hour = 21

[blocking]
default_sites = ["reddit.com", "twitter.com"]

[notifications]
time_alerts = false
time_alert_thresholds = [30, 60]
`

	cfg, err := LoadFromBytes([]byte(tomlData))
	assert.NoError(t, err)

	assert.Equal(t, 15, *cfg.Daemon.HeartbeatSeconds)
	assert.Equal(t, 2, *cfg.Daemon.SessionWarningMinutes)
	assert.Equal(t, 21, *cfg.Daemon.StreakCheckHour)
	assert.Equal(t, []string{"reddit.com", "twitter.com"}, cfg.Blocking.DefaultSites)
	assert.False(t, *cfg.Notifications.TimeAlerts)
	assert.True(t, *cfg.Notifications.StreakAlerts, "unset flag falls back to its default")
	assert.Equal(t, []int{30, 60}, cfg.Notifications.TimeAlertThresholds)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	_, err := LoadFromBytes([]byte("daemon = not valid toml"))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	tempFile, err := os.CreateTemp("", "config-*.toml")
	assert.NoError(t, err)
	defer os.Remove(tempFile.Name())

	tomlData := `
[daemon]
heartbeat_seconds = 15

[blocking]
default_sites = ["reddit.com"]
`
	_, err = tempFile.Write([]byte(tomlData))
	assert.NoError(t, err)
	tempFile.Close()

	cfg, err := LoadFromFile(tempFile.Name())
	assert.NoError(t, err)
	assert.Equal(t, 15, *cfg.Daemon.HeartbeatSeconds)
	assert.Equal(t, []string{"reddit.com"}, cfg.Blocking.DefaultSites)
	assert.Equal(t, 5, *cfg.Daemon.SessionWarningMinutes)
}

func TestLoadFromFile_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 30, *cfg.Daemon.HeartbeatSeconds)

	_, err = os.Stat(path)
	assert.NoError(t, err, "loading creates an empty config file")
}
