package browser

// Session is a provisioned remote browser.
type Session struct {
	ID          string
	CDPWSURL    string
	LiveViewURL string
}

type createSessionRequest struct {
	Stealth bool `json:"stealth,omitempty"`
}

type createSessionResponse struct {
	SessionID          string `json:"session_id"`
	CDPWSURL           string `json:"cdp_ws_url"`
	BrowserLiveViewURL string `json:"browser_live_view_url"`
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
