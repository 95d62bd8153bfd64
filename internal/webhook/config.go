package webhook

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/stapply-ai/agent/internal/utils"
)

type Config struct {
	// Secret signs outbound events. Leaving it empty disables dispatch;
	// unsigned events are never sent.
	Secret string `mapstructure:"secret"`

	// Tolerance is the accepted clock skew when verifying inbound
	// signatures, and the replay-protection window.
	Tolerance time.Duration `mapstructure:"tolerance"`

	// Timeout bounds each delivery attempt.
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *Config) Validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("webhook `tolerance` must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("webhook `timeout` must be positive")
	}
	return nil
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("secret", utils.MaskSecret(c.Secret)),
		slog.Duration("tolerance", c.Tolerance),
		slog.Duration("timeout", c.Timeout),
	)
}
