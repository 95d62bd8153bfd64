package apply

import "github.com/stapply-ai/agent/internal/agent"

// ApplyRequest starts an application session. Required fields are checked by
// the session service so the envelope carries stable error messages.
type ApplyRequest struct {
	UserID       string            `json:"user_id"`
	URL          string            `json:"url"`
	Profile      *agent.Profile    `json:"profile,omitempty"`
	ResumeURL    string            `json:"resume_url"`
	Instructions string            `json:"instructions,omitempty"`
	Secrets      map[string]string `json:"secrets,omitempty"`
	WebhookURL   string            `json:"webhook_url,omitempty"`
}

type ApplyResponse struct {
	SessionID string `json:"session_id"`
	LiveURL   string `json:"live_url"`
}

type ListSessionsResponse struct {
	Sessions []*agent.Session `json:"sessions"`
	Count    int              `json:"count"`
}
