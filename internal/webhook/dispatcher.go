package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/imroc/req/v3"
	"github.com/stapply-ai/agent/internal/utils"
	"github.com/stapply-ai/agent/internal/version"
)

// Dispatcher posts signed JSON events to caller-supplied webhook URLs.
// Without a signing secret it refuses to send rather than emit unsigned
// events.
type Dispatcher struct {
	config *Config
	http   *req.Client
}

func NewDispatcher(config *Config) *Dispatcher {
	client := req.C().
		SetUserAgent(fmt.Sprintf("%s/%s", version.AppName, version.Version)).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1 * time.Second).
		SetTimeout(config.Timeout).
		SetJsonMarshal(utils.JSONMarshal).
		SetJsonUnmarshal(utils.JSONUnmarshal)
	return &Dispatcher{
		config: config,
		http:   client,
	}
}

// Dispatch signs and posts the payload. It is a no-op when no signing secret
// is configured.
func (d *Dispatcher) Dispatch(ctx context.Context, url string, payload any) error {
	if d.config.Secret == "" {
		slog.Debug("webhook dispatch skipped, no signing secret", "url", url)
		return nil
	}

	body, err := utils.JSONMarshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	now := time.Now()
	resp, err := d.http.R().
		SetContext(ctx).
		SetContentType("application/json").
		SetHeader(SignatureHeader, Sign(d.config.Secret, now, body)).
		SetHeader(TimestampHeader, strconv.FormatInt(now.Unix(), 10)).
		SetBodyBytes(body).
		Post(url)
	if err != nil {
		return fmt.Errorf("dispatch webhook: %w", err)
	}
	if resp.IsErrorState() {
		return fmt.Errorf("dispatch webhook: %s", resp.Status)
	}

	slog.Debug("webhook dispatched", "url", url, "status", resp.StatusCode)
	return nil
}
