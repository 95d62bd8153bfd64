package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/stapply-ai/agent/internal/utils"
)

// Status is the lifecycle state of an application session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the session has finished, successfully or not.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

var (
	ErrUserIDRequired    = errors.New("user_id is required")
	ErrURLRequired       = errors.New("url is required")
	ErrResumeURLRequired = errors.New("resume_url is required")
	ErrWebhookURLInvalid = errors.New("webhook_url must be a valid http(s) URL")
	ErrSessionNotFound   = errors.New("session not found")
	ErrQueueFull         = errors.New("session queue is full")
	ErrServiceStopped    = errors.New("session service is stopped")
)

// SubmitParams carries a validated application request into the service.
type SubmitParams struct {
	UserID       string
	URL          string
	Profile      *Profile
	ResumeURL    string
	Instructions string
	Secrets      map[string]string
	WebhookURL   string
}

func (p *SubmitParams) Validate() error {
	if p.UserID == "" {
		return ErrUserIDRequired
	}
	if p.URL == "" {
		return ErrURLRequired
	}
	if p.ResumeURL == "" {
		return ErrResumeURLRequired
	}
	if p.WebhookURL != "" && !utils.IsValidURL(p.WebhookURL) {
		return ErrWebhookURLInvalid
	}
	return nil
}

// Usage aggregates the token and cost metadata of a completed run.
type Usage struct {
	PromptTokens       int64   `json:"total_prompt_tokens"`
	CachedPromptTokens int64   `json:"total_prompt_cached_tokens"`
	CompletionTokens   int64   `json:"total_completion_tokens"`
	TotalTokens        int64   `json:"total_tokens"`
	TotalCost          float64 `json:"total_cost"`
}

// Session is one application attempt, from submit to terminal status.
// Secrets never land here; they ride the in-memory job only.
type Session struct {
	ID           string     `json:"session_id"`
	UserID       string     `json:"user_id"`
	URL          string     `json:"url"`
	ResumeURL    string     `json:"resume_url"`
	Instructions string     `json:"instructions,omitempty"`
	BrowserID    string     `json:"-"`
	LiveURL      string     `json:"live_url,omitempty"`
	Status       Status     `json:"status"`
	Summary      string     `json:"summary,omitempty"`
	Error        string     `json:"error,omitempty"`
	Usage        Usage      `json:"usage"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Duration is the wall time between run start and finish, zero until terminal.
func (s *Session) Duration() time.Duration {
	if s.StartedAt == nil || s.FinishedAt == nil {
		return 0
	}
	return s.FinishedAt.Sub(*s.StartedAt)
}

// Task is the prepared unit of work handed to a Runner.
type Task struct {
	SessionID    string
	UserID       string
	URL          string
	Prompt       string
	Profile      *Profile
	ResumePath   string
	Instructions string
	Secrets      map[string]string
	CDPWSURL     string
	LiveViewURL  string
}

// RunResult is what a Runner reports back for a completed task.
type RunResult struct {
	Summary string
	Usage   Usage
}

// Config holds the session worker pool settings.
type Config struct {
	Workers    int           `mapstructure:"workers"`
	QueueSize  int           `mapstructure:"queue_size"`
	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("agent `workers` must be at least 1")
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("agent `queue_size` must be at least 1")
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("agent `run_timeout` must be positive")
	}
	return nil
}
