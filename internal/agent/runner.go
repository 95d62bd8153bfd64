package agent

import (
	"context"
	"fmt"
	"log/slog"
)

// Runner drives a provisioned browser session through an application task.
// Implementations must be safe for concurrent use; the service invokes at
// most one Run per session.
type Runner interface {
	Run(ctx context.Context, task *Task) (*RunResult, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, task *Task) (*RunResult, error)

func (f RunnerFunc) Run(ctx context.Context, task *Task) (*RunResult, error) {
	return f(ctx, task)
}

// HandoffRunner performs no automation. It leaves the provisioned browser to
// the applicant through the live view URL and reports the session as done.
type HandoffRunner struct{}

func NewHandoffRunner() *HandoffRunner {
	return &HandoffRunner{}
}

func (r *HandoffRunner) Run(ctx context.Context, task *Task) (*RunResult, error) {
	slog.Info("session handed off",
		"sessionId", task.SessionID,
		"url", task.URL,
		"liveUrl", task.LiveViewURL,
	)
	return &RunResult{
		Summary: fmt.Sprintf("Browser session ready at %s. Complete the application at %s via the live view.", task.LiveViewURL, task.URL),
	}, nil
}
