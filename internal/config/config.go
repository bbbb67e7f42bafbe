package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/building-controller/internal/domain/building"
	"github.com/oshokin/building-controller/internal/logger"
)

// Config holds the settings of one building controller process.
type Config struct {
	// BuildingID identifies the building; stored lowercase by the controller.
	BuildingID string `yaml:"building_id"`
	// StartMode is the initial normal mode; empty means out of hours.
	StartMode string `yaml:"start_mode"`
	// Lights is the number of lights managed.
	Lights int `yaml:"lights"`
	// Doors is the number of doors managed.
	Doors int `yaml:"doors"`
	// FireAlarms is the number of fire alarm sounders managed.
	FireAlarms int `yaml:"fire_alarms"`
	// WebLogAddress is the gRPC address of the web log service; empty disables it.
	WebLogAddress string `yaml:"weblog_addr"`
	// Email holds Postmark settings; empty tokens select the log-only sender.
	Email Email `yaml:"email"`
	// Timeout bounds each call to a notification service.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Email holds Postmark credentials.
type Email struct {
	// ServerToken is the Postmark server API token.
	ServerToken string `yaml:"postmark_server_token"`
	// AccountToken is the Postmark account API token.
	AccountToken string `yaml:"postmark_account_token"`
	// Sender is the From address of operator emails.
	Sender string `yaml:"sender"`
}

// Enabled reports whether Postmark credentials are configured.
func (e Email) Enabled() bool {
	return e.ServerToken != "" || e.AccountToken != ""
}

const (
	// DefaultConfigFilename is the settings file used when no path is given.
	DefaultConfigFilename = "building-controller.yaml"

	// DefaultTimeout bounds notification calls when no timeout is set.
	DefaultTimeout = 5 * time.Second

	// DefaultDeviceCount is used for every device bank left at zero.
	DefaultDeviceCount = 1

	// DefaultLogLevel is used when no level is set.
	DefaultLogLevel = "info"

	// DefaultFilePermissions restricts saved settings, which may hold tokens.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeDeviceCount is returned for a negative bank size.
	errNegativeDeviceCount = errors.New("device count must not be negative")
	// errUnknownLogLevel is returned for an unrecognized log level.
	errUnknownLogLevel = errors.New("unknown log level")
	// errEmailSenderRequired is returned when Postmark tokens come without a sender.
	errEmailSenderRequired = errors.New("email sender must be provided with postmark tokens")
)

// Default returns settings for a building with one device of each kind and no web log.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg) //nolint:errcheck // Zero settings are valid once defaults are applied.

	return cfg
}

// Load reads settings from path and validates them.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates cfg and writes it to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.StartMode != "" {
		mode, err := building.ParseMode(settings.StartMode)
		if err != nil || !mode.IsNormal() {
			return fmt.Errorf("start mode %q: %w", settings.StartMode, building.ErrInvalidStartMode)
		}
	}

	for name, count := range map[string]*int{
		"lights":      &settings.Lights,
		"doors":       &settings.Doors,
		"fire_alarms": &settings.FireAlarms,
	} {
		switch {
		case *count < 0:
			return fmt.Errorf("%s: %w", name, errNegativeDeviceCount)
		case *count == 0:
			*count = DefaultDeviceCount
		}
	}

	if settings.WebLogAddress != "" {
		if _, _, err := net.SplitHostPort(settings.WebLogAddress); err != nil {
			return fmt.Errorf("invalid web log address: %w", err)
		}
	}

	if settings.Email.Enabled() && settings.Email.Sender == "" {
		return errEmailSenderRequired
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	return nil
}
