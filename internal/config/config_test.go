package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

const (
	testDRPG  = "ocid1.drprotectiongroup.oc1.iad.aaaaaaaaexample"
	testTopic = "ocid1.onstopic.oc1.iad.aaaaaaaaexample"
)

func validConfig() Config {
	return Config{
		DRPGOCID:          testDRPG,
		PollInterval:      DefaultPollInterval,
		Timeout:           DefaultTimeout,
		LogDir:            DefaultLogDir,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		Auth:              AuthInstancePrincipal,
		OCIProfile:        DefaultOCIProfile,
		RequestsPerSecond: DefaultRequestsPerSecond,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "valid with topic", modify: func(c *Config) { c.TopicOCID = testTopic }},
		{name: "valid config file auth", modify: func(c *Config) { c.Auth = AuthConfigFile }},
		{name: "valid json format", modify: func(c *Config) { c.LogFormat = "json" }},
		{name: "missing DRPG", modify: func(c *Config) { c.DRPGOCID = "" }, wantErr: true},
		{name: "malformed DRPG", modify: func(c *Config) { c.DRPGOCID = "ocid1.instance.oc1.iad.aaaa" }, wantErr: true},
		{name: "malformed topic", modify: func(c *Config) { c.TopicOCID = testDRPG }, wantErr: true},
		{name: "zero interval", modify: func(c *Config) { c.PollInterval = 0 }, wantErr: true},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: true},
		{name: "interval above timeout", modify: func(c *Config) { c.PollInterval = time.Hour; c.Timeout = time.Minute }, wantErr: true},
		{name: "empty log dir", modify: func(c *Config) { c.LogDir = "" }, wantErr: true},
		{name: "bad log format", modify: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "bad auth", modify: func(c *Config) { c.Auth = "api_key" }, wantErr: true},
		{name: "config file auth without profile", modify: func(c *Config) { c.Auth = AuthConfigFile; c.OCIProfile = "" }, wantErr: true},
		{name: "zero rate", modify: func(c *Config) { c.RequestsPerSecond = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_MalformedOCIDIsInvalidOCID(t *testing.T) {
	cfg := validConfig()
	cfg.DRPGOCID = "drpg-123"

	err := cfg.Validate()
	if !errors.Is(err, model.ErrInvalidOCID) {
		t.Fatalf("Expected ErrInvalidOCID, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.Set(KeyDRPGOCID, testDRPG)

	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, testDRPG, cfg.DRPGOCID)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultLogDir, cfg.LogDir)
	assert.Equal(t, AuthInstancePrincipal, cfg.Auth)
	assert.Equal(t, DefaultRequestsPerSecond, cfg.RequestsPerSecond)
	assert.False(t, cfg.Strict)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsdr.yaml")
	content := `drpg-ocid: ` + testDRPG + `
ons-topic-ocid: ` + testTopic + `
poll-interval: 10s
timeout: 45m
log-dir: /var/log/fsdr
strict: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, testTopic, cfg.TopicOCID)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 45*time.Minute, cfg.Timeout)
	assert.Equal(t, "/var/log/fsdr", cfg.LogDir)
	assert.True(t, cfg.Strict)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsdr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drpg-ocid: "+testDRPG+"\ntimeout: 45m\n"), 0o644))

	t.Setenv("FSDR_TIMEOUT", "90m")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.Timeout)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	v := viper.New()
	v.Set(KeyDRPGOCID, testDRPG)

	_, err := Load(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidOCID(t *testing.T) {
	v := viper.New()
	v.Set(KeyDRPGOCID, "not-an-ocid")

	_, err := Load(v, "")
	assert.ErrorIs(t, err, model.ErrInvalidOCID)
}
