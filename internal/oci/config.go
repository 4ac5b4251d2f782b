// Package oci adapts the OCI Go SDK to the interfaces used by the precheck
// run. It owns authentication, per-region clients, request rate limiting and
// conversion between SDK and model types.
package oci

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/common/auth"

	"github.com/antounmoubarak/fsdr-precheck/internal/config"
)

// ErrInvalidConfig indicates the client configuration is invalid or incomplete.
var ErrInvalidConfig = errors.New("invalid OCI client configuration")

// ClientConfig contains the configuration for creating OCI clients.
type ClientConfig struct {
	// Auth selects the credential source.
	Auth config.AuthMode

	// ConfigFile is the OCI CLI config file for config_file auth.
	// Optional: empty uses the SDK default (~/.oci/config).
	ConfigFile string

	// Profile is the profile within ConfigFile.
	// Default: DEFAULT
	Profile string

	// RequestsPerSecond caps the rate of API calls across all regions.
	// Default: 5
	RequestsPerSecond float64
}

// Validate checks the configuration and sets defaults.
func (c *ClientConfig) Validate() error {
	switch c.Auth {
	case config.AuthInstancePrincipal, config.AuthConfigFile:
	case "":
		c.Auth = config.AuthInstancePrincipal
	default:
		return fmt.Errorf("%w: unsupported auth mode %q", ErrInvalidConfig, c.Auth)
	}

	if strings.TrimSpace(c.Profile) == "" {
		c.Profile = config.DefaultOCIProfile
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", ErrInvalidConfig)
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = config.DefaultRequestsPerSecond
	}

	return nil
}

// NewConfigurationProvider returns the credential provider for the configured auth mode.
func NewConfigurationProvider(cfg ClientConfig) (common.ConfigurationProvider, error) {
	switch cfg.Auth {
	case config.AuthInstancePrincipal:
		provider, err := auth.InstancePrincipalConfigurationProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create instance principal provider: %w", err)
		}
		return provider, nil

	case config.AuthConfigFile:
		return common.CustomProfileConfigProvider(cfg.ConfigFile, cfg.Profile), nil
	}

	return nil, fmt.Errorf("%w: unsupported auth mode %q", ErrInvalidConfig, cfg.Auth)
}
