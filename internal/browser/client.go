package browser

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/coder/websocket"
	"github.com/imroc/req/v3"
	"github.com/stapply-ai/agent/internal/utils"
	"github.com/stapply-ai/agent/internal/version"
)

const (
	browsersEndpoint = "/browsers"
	browserEndpoint  = "/browsers/{id}"

	cdpDialTimeout = 10 * time.Second
)

// Client provisions remote browser sessions over a Kernel-style browsers API.
// Every created session is checked for a reachable CDP endpoint before it is
// handed out.
type Client struct {
	config *Config
	http   *req.Client
}

func NewClient(config *Config) *Client {
	client := req.C().
		SetBaseURL(config.APIURL).
		SetUserAgent(fmt.Sprintf("%s/%s (%s; %s)", version.AppName, version.Version, runtime.GOOS, runtime.GOARCH)).
		SetCommonHeader("X-Agent-Instance", utils.HWID).
		SetCommonBearerAuthToken(config.APIKey).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1 * time.Second).
		SetTimeout(config.Timeout).
		SetJsonMarshal(utils.JSONMarshal).
		SetJsonUnmarshal(utils.JSONUnmarshal)

	if config.APIKey == "" {
		slog.Warn("browser api key is not set, provisioning calls will be unauthorized")
	}

	return &Client{
		config: config,
		http:   client,
	}
}

// Create provisions a browser and verifies its CDP endpoint accepts a
// websocket connection. The browser is released again when the check fails.
func (c *Client) Create(ctx context.Context) (*Session, error) {
	var res createSessionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&createSessionRequest{Stealth: c.config.Stealth}).
		SetSuccessResult(&res).
		Post(browsersEndpoint)
	if err := handleAPIError(resp, err, "create browser session"); err != nil {
		return nil, err
	}
	if res.SessionID == "" || res.CDPWSURL == "" {
		return nil, fmt.Errorf("create browser session: malformed response")
	}

	session := &Session{
		ID:          res.SessionID,
		CDPWSURL:    res.CDPWSURL,
		LiveViewURL: res.BrowserLiveViewURL,
	}

	if err := c.verifyCDP(ctx, session.CDPWSURL); err != nil {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if delErr := c.Delete(cleanupCtx, session.ID); delErr != nil {
			slog.Warn("delete browser session after failed cdp check", "browserId", session.ID, "error", delErr)
		}
		cancel()
		return nil, fmt.Errorf("connect browser cdp: %w", err)
	}

	slog.Debug("browser session created", "browserId", session.ID, "liveUrl", session.LiveViewURL)
	return session, nil
}

// Delete releases a provisioned browser.
func (c *Client) Delete(ctx context.Context, sessionID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", sessionID).
		Delete(browserEndpoint)
	if err := handleAPIError(resp, err, "delete browser session"); err != nil {
		return err
	}
	slog.Debug("browser session deleted", "browserId", sessionID)
	return nil
}

// verifyCDP dials the session's CDP websocket once. A session whose CDP
// endpoint does not accept connections is unusable for automation.
func (c *Client) verifyCDP(ctx context.Context, wsURL string) error {
	dialCtx, cancel := context.WithTimeout(ctx, cdpDialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, wsURL, nil)
	if err != nil {
		return err
	}
	return conn.Close(websocket.StatusNormalClosure, "")
}

func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("%s: %w", operation, requestErr)
	}
	if resp.IsErrorState() {
		msg := resp.Status
		var apiErr apiError
		if err := resp.UnmarshalJson(&apiErr); err == nil {
			if apiErr.Error != "" {
				msg = apiErr.Error
			} else if apiErr.Message != "" {
				msg = apiErr.Message
			}
		}
		return fmt.Errorf("%s: %s", operation, msg)
	}
	return nil
}
