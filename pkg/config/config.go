// Package config resolves run settings from defaults, an optional file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hostcheck/pkg/models"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyDiskThreshold  = "disk-threshold"
	KeyPing           = "ping"
	KeyServices       = "services"
	KeyFormat         = "format"
	KeyLogLevel       = "log-level"
	KeyLogJSON        = "log-json"
	KeyPingTimeout    = "ping-timeout"
	KeyCommandTimeout = "command-timeout"
	KeyConfigFile     = "config"
	KeyServeAddr      = "addr"
	KeyServeRateLimit = "rate-limit"
)

// Defaults.
const (
	DefaultDiskThreshold  = 85
	DefaultPingTarget     = "8.8.8.8"
	DefaultServices       = "ssh systemd-journald cron"
	DefaultFormat         = string(models.FormatCombined)
	DefaultLogLevel       = "warn"
	DefaultPingTimeout    = 2 * time.Second
	DefaultCommandTimeout = 30 * time.Second
	DefaultServeAddr      = ":9109"
	DefaultServeRateLimit = 1.0

	envPrefix = "HOSTCHECK"
)

// envAliases keeps the variable names operators already use for the shell version of the check.
var envAliases = map[string]string{
	KeyDiskThreshold: "DISK_THRESHOLD",
	KeyPing:          "PING_TARGET",
	KeyServices:      "CHECK_SERVICES",
	KeyFormat:        "FORMAT",
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration of one invocation.
type Config struct {
	Thresholds     models.ThresholdConfig
	FormatKnown    bool
	LogLevel       string
	LogJSON        bool
	PingTimeout    time.Duration
	CommandTimeout time.Duration
	ServeAddr      string
	ServeRateLimit float64
}

// RegisterFlags adds the check flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int(KeyDiskThreshold, DefaultDiskThreshold, "Root disk usage percentage above which the host is unhealthy")
	fs.String(KeyPing, DefaultPingTarget, "Host to probe with a single ping (empty disables the check)")
	fs.String(KeyServices, DefaultServices, "Whitespace-separated systemd services that must be active")
	fs.String(KeyFormat, DefaultFormat, "Output format: structured, tabular, plain, combined or yaml")
	fs.String(KeyLogLevel, DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.Bool(KeyLogJSON, false, "Emit logs as JSON lines")
	fs.Duration(KeyPingTimeout, DefaultPingTimeout, "Timeout of the ping probe")
	fs.Duration(KeyCommandTimeout, DefaultCommandTimeout, "Timeout of every other external utility")
	fs.String(KeyConfigFile, "", "Optional YAML config file")
}

// RegisterServeFlags adds the HTTP server flags to fs.
func RegisterServeFlags(fs *pflag.FlagSet) {
	fs.String(KeyServeAddr, DefaultServeAddr, "Listen address of the health endpoint")
	fs.Float64(KeyServeRateLimit, DefaultServeRateLimit, "Health requests per second allowed per client")
}

// Load resolves the configuration with precedence flags > environment > file > defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, "-", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %w", ErrInvalidConfig, path, err)
		}
	}

	format, known := models.ParseFormat(v.GetString(KeyFormat))

	threshold, err := cast.ToIntE(v.Get(KeyDiskThreshold))
	if err != nil {
		return nil, invalidValue(KeyDiskThreshold, v.Get(KeyDiskThreshold), err)
	}
	pingTimeout, err := cast.ToDurationE(v.Get(KeyPingTimeout))
	if err != nil {
		return nil, invalidValue(KeyPingTimeout, v.Get(KeyPingTimeout), err)
	}
	commandTimeout, err := cast.ToDurationE(v.Get(KeyCommandTimeout))
	if err != nil {
		return nil, invalidValue(KeyCommandTimeout, v.Get(KeyCommandTimeout), err)
	}
	rateLimit := DefaultServeRateLimit
	if v.IsSet(KeyServeRateLimit) {
		if rateLimit, err = cast.ToFloat64E(v.Get(KeyServeRateLimit)); err != nil {
			return nil, invalidValue(KeyServeRateLimit, v.Get(KeyServeRateLimit), err)
		}
	}

	cfg := &Config{
		Thresholds: models.ThresholdConfig{
			DiskThresholdPct: threshold,
			PingTarget:       strings.TrimSpace(v.GetString(KeyPing)),
			Services:         splitServices(v.GetStringSlice(KeyServices)),
			Format:           format,
		},
		FormatKnown:    known,
		LogLevel:       v.GetString(KeyLogLevel),
		LogJSON:        v.GetBool(KeyLogJSON),
		PingTimeout:    pingTimeout,
		CommandTimeout: commandTimeout,
		ServeAddr:      v.GetString(KeyServeAddr),
		ServeRateLimit: rateLimit,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no run could honour.
func (c *Config) Validate() error {
	if c.Thresholds.DiskThresholdPct < 0 || c.Thresholds.DiskThresholdPct > 100 {
		return fmt.Errorf("%w: %s must be between 0 and 100, got %d", ErrInvalidConfig, KeyDiskThreshold, c.Thresholds.DiskThresholdPct)
	}
	if c.PingTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyPingTimeout)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyCommandTimeout)
	}
	if c.ServeRateLimit < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyServeRateLimit)
	}
	return nil
}

func invalidValue(key string, value interface{}, err error) error {
	return fmt.Errorf("%w: %s has invalid value %v: %w", ErrInvalidConfig, key, value, err)
}

// splitServices accepts both a whitespace-separated string and a YAML list.
func splitServices(values []string) []string {
	services := []string{}
	for _, value := range values {
		services = append(services, strings.Fields(value)...)
	}
	return services
}
