package server

import (
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/stapply-ai/agent/internal/agent"
	"github.com/stapply-ai/agent/internal/browser"
	"github.com/stapply-ai/agent/internal/email"
	"github.com/stapply-ai/agent/internal/utils"
	"github.com/stapply-ai/agent/internal/webhook"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	HTTP    HTTPConfig     `mapstructure:"http"`
	Agent   agent.Config   `mapstructure:"agent"`
	Browser browser.Config `mapstructure:"browser"`
	Webhook webhook.Config `mapstructure:"webhook"`
	Email   email.Config   `mapstructure:"email"`
	DataDir string         `mapstructure:"data_dir"`
}

type HTTPConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RateLimit      string        `mapstructure:"rate_limit"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CertFile       string        `mapstructure:"cert_file"`
	KeyFile        string        `mapstructure:"key_file"`
}

func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent config: %w", err)
	}
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser config: %w", err)
	}
	if err := c.Webhook.Validate(); err != nil {
		return fmt.Errorf("webhook config: %w", err)
	}
	if err := c.Email.Validate(); err != nil {
		return fmt.Errorf("email config: %w", err)
	}
	if c.DataDir == "" {
		return fmt.Errorf("`data_dir` is required")
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.HTTP.Host, strconv.Itoa(c.HTTP.Port))
}

func (c *Config) IsProduction() bool {
	return c.HTTP.Environment == EnvProduction
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "agent.db")
}

func (c *Config) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr()),
		slog.String("environment", c.HTTP.Environment),
		slog.String("data_dir", c.DataDir),
		slog.Any("agent", &c.Agent),
		slog.Any("browser", &c.Browser),
		slog.Any("webhook", &c.Webhook),
		slog.Any("email", c.Email),
	)
}

func (c *HTTPConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("invalid environment %q", c.Environment)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("`request_timeout` must not be negative")
	}
	if c.CertFile != "" && !utils.FileExists(c.CertFile) {
		return fmt.Errorf("`cert_file` %q does not exist", c.CertFile)
	}
	if c.KeyFile != "" && !utils.FileExists(c.KeyFile) {
		return fmt.Errorf("`key_file` %q does not exist", c.KeyFile)
	}
	return nil
}
