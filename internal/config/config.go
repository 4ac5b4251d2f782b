// Package config loads and validates the settings of a precheck run.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/antounmoubarak/fsdr-precheck/internal/util"
)

// Keys shared by flags, the config file and FSDR_* environment variables.
const (
	KeyDRPGOCID          = "drpg-ocid"
	KeyTopicOCID         = "ons-topic-ocid"
	KeyPollInterval      = "poll-interval"
	KeyTimeout           = "timeout"
	KeyLogDir            = "log-dir"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
	KeyAuth              = "auth"
	KeyOCIConfigFile     = "oci-config-file"
	KeyOCIProfile        = "oci-profile"
	KeyRequestsPerSecond = "requests-per-second"
	KeyReport            = "report"
	KeyMetricsFile       = "metrics-file"
	KeyStrict            = "strict"

	// EnvPrefix is prepended to upper-cased keys, e.g. FSDR_DRPG_OCID.
	EnvPrefix = "fsdr"
)

// Defaults.
const (
	DefaultPollInterval      = 30 * time.Second
	DefaultTimeout           = 2 * time.Hour
	DefaultLogDir            = "logs"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
	DefaultOCIProfile        = "DEFAULT"
	DefaultRequestsPerSecond = 5.0
)

// AuthMode selects how OCI requests are signed.
type AuthMode string

const (
	// AuthInstancePrincipal signs with the compute instance's identity.
	AuthInstancePrincipal AuthMode = "instance_principal"

	// AuthConfigFile signs with a profile from an OCI CLI config file.
	AuthConfigFile AuthMode = "config_file"
)

// Config is the complete configuration of a run.
type Config struct {
	// DRPGOCID is the protection group to precheck. Required.
	DRPGOCID string

	// TopicOCID is the notification topic for failures. Optional.
	TopicOCID string

	// PollInterval is the time between execution status polls.
	PollInterval time.Duration

	// Timeout bounds the wait for a single plan's precheck.
	Timeout time.Duration

	// LogDir receives the run logs.
	LogDir string

	// LogLevel is the console log level.
	LogLevel string

	// LogFormat is the console log format (console, json).
	LogFormat string

	// Auth selects the request signer.
	Auth AuthMode

	// OCIConfigFile and OCIProfile are used with AuthConfigFile.
	OCIConfigFile string
	OCIProfile    string

	// RequestsPerSecond caps the OCI API call rate of the run.
	RequestsPerSecond float64

	// ReportPath, when set, receives a YAML summary of the run.
	ReportPath string

	// MetricsFile, when set, receives Prometheus text-format metrics.
	MetricsFile string

	// Strict makes failed or timed-out prechecks change the exit code.
	Strict bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyLogDir, DefaultLogDir)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyAuth, string(AuthInstancePrincipal))
	v.SetDefault(KeyOCIProfile, DefaultOCIProfile)
	v.SetDefault(KeyRequestsPerSecond, DefaultRequestsPerSecond)
	v.SetDefault(KeyStrict, false)
}

// Load builds a validated Config from v.
//
// Precedence, lowest first: defaults, the YAML file at configFile (if any),
// FSDR_* environment variables, flags bound to v.
//
// Parameters:
//   - v: viper instance with flags already bound
//   - configFile: optional path to a YAML config file
//
// Returns:
//   - *Config: The loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		DRPGOCID:          strings.TrimSpace(v.GetString(KeyDRPGOCID)),
		TopicOCID:         strings.TrimSpace(v.GetString(KeyTopicOCID)),
		PollInterval:      v.GetDuration(KeyPollInterval),
		Timeout:           v.GetDuration(KeyTimeout),
		LogDir:            v.GetString(KeyLogDir),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
		Auth:              AuthMode(v.GetString(KeyAuth)),
		OCIConfigFile:     v.GetString(KeyOCIConfigFile),
		OCIProfile:        v.GetString(KeyOCIProfile),
		RequestsPerSecond: v.GetFloat64(KeyRequestsPerSecond),
		ReportPath:        v.GetString(KeyReport),
		MetricsFile:       v.GetString(KeyMetricsFile),
		Strict:            v.GetBool(KeyStrict),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
//
// Returns:
//   - error: Validation error describing what is wrong, or nil if valid
func (c *Config) Validate() error {
	if c.DRPGOCID == "" {
		return errors.New("drpg-ocid is required")
	}
	if err := util.ValidateDRPGOCID(c.DRPGOCID); err != nil {
		return err
	}

	// Topic is optional, but if provided must be valid
	if c.TopicOCID != "" {
		if err := util.ValidateTopicOCID(c.TopicOCID); err != nil {
			return err
		}
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive, got %s", c.PollInterval)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.PollInterval > c.Timeout {
		return fmt.Errorf("poll-interval (%s) must not exceed timeout (%s)", c.PollInterval, c.Timeout)
	}

	if c.LogDir == "" {
		return errors.New("log-dir cannot be empty")
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("log-format must be console or json, got %q", c.LogFormat)
	}

	switch c.Auth {
	case AuthInstancePrincipal:
	case AuthConfigFile:
		if c.OCIProfile == "" {
			return errors.New("oci-profile cannot be empty with config_file auth")
		}
	default:
		return fmt.Errorf("auth must be %s or %s, got %q", AuthInstancePrincipal, AuthConfigFile, c.Auth)
	}

	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests-per-second must be positive, got %v", c.RequestsPerSecond)
	}

	return nil
}
