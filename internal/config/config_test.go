package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/building-controller/internal/domain/building"
)

// TestValidate checks defaults and rejected values.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Defaults.
	settings := new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultDeviceCount, settings.Lights)
	require.Equal(t, DefaultDeviceCount, settings.Doors)
	require.Equal(t, DefaultDeviceCount, settings.FireAlarms)
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultLogLevel, settings.LogLevel)

	// Emergency start mode.
	err := Validate(&Config{StartMode: "fire drill"})
	require.ErrorIs(t, err, building.ErrInvalidStartMode)

	// Normal start mode in any casing.
	require.NoError(t, Validate(&Config{StartMode: "Out Of Hours"}))

	// Negative device count.
	require.Error(t, Validate(&Config{Doors: -1}))

	// Bad web log address.
	require.Error(t, Validate(&Config{WebLogAddress: "no-port"}))
	require.NoError(t, Validate(&Config{WebLogAddress: "127.0.0.1:7070"}))

	// Tokens without sender.
	require.ErrorIs(t, Validate(&Config{Email: Email{ServerToken: "s"}}), errEmailSenderRequired)

	// Unknown log level.
	require.ErrorIs(t, Validate(&Config{LogLevel: "chatty"}), errUnknownLogLevel)
}

// TestDefault returns usable settings.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, 1, cfg.Lights)
	require.Empty(t, cfg.WebLogAddress)
	require.False(t, cfg.Email.Enabled())
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		BuildingID:    "Main Campus",
		StartMode:     "closed",
		Lights:        4,
		Doors:         2,
		WebLogAddress: "127.0.0.1:7070",
		Timeout:       2 * time.Second,
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_ParsesYAML reads a hand-written file.
func TestLoad_ParsesYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "building.yaml")
	contents := []byte(`building_id: Library
start_mode: Open
lights: 3
timeout: 750ms
email:
  postmark_server_token: srv
  postmark_account_token: acc
  sender: controller@example.com
`)
	require.NoError(t, os.WriteFile(path, contents, DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Library", cfg.BuildingID)
	require.Equal(t, "Open", cfg.StartMode)
	require.Equal(t, 3, cfg.Lights)
	require.Equal(t, 1, cfg.Doors)
	require.Equal(t, 750*time.Millisecond, cfg.Timeout)
	require.True(t, cfg.Email.Enabled())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
