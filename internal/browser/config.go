package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/stapply-ai/agent/internal/utils"
)

type Config struct {
	// APIURL is the base URL of the browser provisioning API.
	APIURL string `mapstructure:"api_url"`

	// APIKey authorizes calls to the provisioning API. Leaving it empty is
	// allowed so the server can boot without credentials; provisioning calls
	// will be rejected upstream.
	APIKey string `mapstructure:"api_key"`

	// Timeout bounds each provisioning API call.
	Timeout time.Duration `mapstructure:"timeout"`

	// Stealth asks the provider for a fingerprint-hardened browser.
	Stealth bool `mapstructure:"stealth"`
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("browser `api_url` is required")
	}
	if !utils.IsValidURL(c.APIURL) {
		return fmt.Errorf("invalid browser `api_url` %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("browser `timeout` must be positive")
	}
	return nil
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("apiUrl", c.APIURL),
		slog.String("apiKey", utils.MaskSecret(c.APIKey)),
		slog.Duration("timeout", c.Timeout),
		slog.Bool("stealth", c.Stealth),
	)
}
