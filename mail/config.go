package mail

import "fmt"

// Config holds email delivery settings.
type Config struct {
	// Enabled selects the SendGrid sender. When false a log-only sender
	// is used, which suits local development and tests.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	APIKey      string `mapstructure:"api_key" yaml:"api_key"`
	FromAddress string `mapstructure:"from_address" yaml:"from_address"`
	FromName    string `mapstructure:"from_name" yaml:"from_name"`
}

// ApplyDefaults fills in zero values.
func (c *Config) ApplyDefaults() {
	if c.FromName == "" {
		c.FromName = "TaskCollab"
	}
}

// Validate checks the configuration. API key and sender address are only
// required when SendGrid delivery is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.APIKey == "" {
		return fmt.Errorf("mail: api_key is required when enabled")
	}
	if c.FromAddress == "" {
		return fmt.Errorf("mail: from_address is required when enabled")
	}
	return nil
}
