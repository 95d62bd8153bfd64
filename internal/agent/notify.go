package agent

import (
	"fmt"
	"strings"

	"github.com/stapply-ai/agent/internal/email"
)

// CompletionEvent is the payload posted to a caller's webhook when a session
// reaches a terminal state.
type CompletionEvent struct {
	Event      string `json:"event"`
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	URL        string `json:"url"`
	Status     Status `json:"status"`
	Summary    string `json:"summary,omitempty"`
	Error      string `json:"error,omitempty"`
	Usage      Usage  `json:"usage"`
	DurationMS int64  `json:"duration_ms"`
	FinishedAt string `json:"finished_at"`
}

func newCompletionEvent(s *Session) *CompletionEvent {
	finishedAt := ""
	if s.FinishedAt != nil {
		finishedAt = formatTime(*s.FinishedAt)
	}
	return &CompletionEvent{
		Event:      "session.completed",
		SessionID:  s.ID,
		UserID:     s.UserID,
		URL:        s.URL,
		Status:     s.Status,
		Summary:    s.Summary,
		Error:      s.Error,
		Usage:      s.Usage,
		DurationMS: s.Duration().Milliseconds(),
		FinishedAt: finishedAt,
	}
}

func completionEmail(p *Profile, s *Session) *email.EmailInfo {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		name = "there"
	}

	var subject, headline string
	if s.Status == StatusSucceeded {
		subject = "Your job application was submitted"
		headline = fmt.Sprintf("Your application to %s has been submitted.", s.URL)
	} else {
		subject = "Your job application could not be completed"
		headline = fmt.Sprintf("Your application to %s could not be completed.", s.URL)
	}

	var html strings.Builder
	fmt.Fprintf(&html, "<p>Hi %s,</p>", name)
	fmt.Fprintf(&html, "<p>%s</p>", headline)
	if s.Summary != "" {
		fmt.Fprintf(&html, "<p>%s</p>", s.Summary)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n%s\n", name, headline)
	if s.Summary != "" {
		fmt.Fprintf(&text, "\n%s\n", s.Summary)
	}

	return &email.EmailInfo{
		ToName:   name,
		ToEmail:  p.Email,
		Subject:  subject,
		HTMLBody: html.String(),
		TextBody: text.String(),
	}
}
