// Package config loads application configuration from a YAML file and the
// environment. A config.yml provides the base values; environment variables
// (optionally from a .env file) override them, with keys joined by
// underscores (e.g. TOKEN_SECRET overrides token.secret).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/taskcollab/taskcollab/logger"
	"github.com/taskcollab/taskcollab/mail"
	"github.com/taskcollab/taskcollab/revocation"
	"github.com/taskcollab/taskcollab/server"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/token"
)

// Config is the root application configuration.
type Config struct {
	Logging    logger.Config     `mapstructure:"logging"`
	Server     server.Config     `mapstructure:"server"`
	Database   store.Config      `mapstructure:"database"`
	Redis      revocation.Config `mapstructure:"redis"`
	Token      token.Config      `mapstructure:"token"`
	Mail       mail.Config       `mapstructure:"mail"`
	Domain     string            `mapstructure:"domain"`
	ResetURL   string            `mapstructure:"reset_url"`
	VerifyPath string            `mapstructure:"verify_path"`
}

// ApplyDefaults fills zero-valued fields across all sections.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Mail.ApplyDefaults()
	if c.Domain == "" {
		c.Domain = "localhost:8080"
	}
	if c.VerifyPath == "" {
		c.VerifyPath = "/api/v1/auth/verify"
	}
	if c.ResetURL == "" {
		c.ResetURL = "http://localhost:3000/reset-password"
	}
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Token.Validate(); err != nil {
		return err
	}
	return nil
}

// LoaderOption customizes Load.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load reads configuration into cfg. Missing files are not an error; the
// environment alone can configure the service.
func Load(cfg *Config, opts ...LoaderOption) error {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.configFile == "" {
		o.configFile = findFirst("./config.yml", "./cmd/taskcollab/config.yml", "../config.yml")
	}
	if o.envFile == "" {
		o.envFile = findFirst("./.env", "./cmd/taskcollab/.env")
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load %s: %v\n", o.envFile, err)
		}
	}

	v := viper.New()
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", o.configFile, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindKnownKeys(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg.Validate()
}

// bindKnownKeys registers the keys that may come solely from the
// environment. AutomaticEnv only resolves keys viper already knows about.
func bindKnownKeys(v *viper.Viper) {
	keys := []string{
		"logging.level", "logging.format", "logging.output",
		"server.host", "server.port",
		"database.dsn",
		"redis.addr", "redis.password", "redis.db",
		"token.secret", "token.access_ttl", "token.refresh_ttl",
		"mail.enabled", "mail.api_key", "mail.from_address", "mail.from_name",
		"domain", "reset_url", "verify_path",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func findFirst(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
