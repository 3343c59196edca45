package token

import (
	"errors"
	"fmt"
	"time"
)

// Config configures the token codec.
type Config struct {
	// Secret is the HMAC signing key. Required.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// AccessTTL is the lifetime of access tokens (default: 1h).
	AccessTTL time.Duration `yaml:"access_ttl" mapstructure:"access_ttl"`

	// RefreshTTL is the lifetime of refresh tokens (default: 48h).
	RefreshTTL time.Duration `yaml:"refresh_ttl" mapstructure:"refresh_ttl"`

	// PurposeTTL is the lifetime of verification and reset tokens (default: 24h).
	PurposeTTL time.Duration `yaml:"purpose_ttl" mapstructure:"purpose_ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.AccessTTL == 0 {
		c.AccessTTL = time.Hour
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = 48 * time.Hour
	}
	if c.PurposeTTL == 0 {
		c.PurposeTTL = 24 * time.Hour
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("access_ttl must be positive (got: %s)", c.AccessTTL)
	}
	if c.RefreshTTL < c.AccessTTL {
		return fmt.Errorf("refresh_ttl must not be shorter than access_ttl (got: %s)", c.RefreshTTL)
	}
	return nil
}
