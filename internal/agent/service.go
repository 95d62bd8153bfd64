package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stapply-ai/agent/internal/browser"
	"github.com/stapply-ai/agent/internal/email"
)

// Provisioner supplies remote browser sessions for runs.
type Provisioner interface {
	Create(ctx context.Context) (*browser.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// Dispatcher delivers completion events to a caller-supplied webhook URL.
type Dispatcher interface {
	Dispatch(ctx context.Context, url string, payload any) error
}

// Mailer sends completion notices to the applicant.
type Mailer interface {
	Send(ctx context.Context, info *email.EmailInfo) error
}

// ResumeStore fetches resumes to local disk for a run and removes them after.
type ResumeStore interface {
	Download(ctx context.Context, url string) (string, error)
	Remove(path string) error
}

// Service accepts application requests, provisions a browser per session and
// feeds queued jobs to a fixed pool of workers.
type Service struct {
	config   *Config
	store    *SessionStore
	browsers Provisioner
	runner   Runner
	resumes  ResumeStore
	hooks    Dispatcher
	mailer   Mailer

	jobs    chan *job
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	stopped bool
}

// ServiceOpts wires the collaborators of a session service.
type ServiceOpts struct {
	Store       *SessionStore
	Provisioner Provisioner
	Runner      Runner
	Resumes     ResumeStore
	Webhooks    Dispatcher
	Mailer      Mailer
}

// job carries everything a worker needs beyond the persisted session.
// Secrets live only here, never in the store or the logs.
type job struct {
	session    *Session
	profile    *Profile
	secrets    map[string]string
	cdpWSURL   string
	webhookURL string
}

func NewService(config *Config, opts ServiceOpts) *Service {
	return &Service{
		config:   config,
		store:    opts.Store,
		browsers: opts.Provisioner,
		runner:   opts.Runner,
		resumes:  opts.Resumes,
		hooks:    opts.Webhooks,
		mailer:   opts.Mailer,
		jobs:     make(chan *job, config.QueueSize),
	}
}

// Start fails sessions orphaned by a previous process and launches the
// worker pool. The workers exit when ctx is canceled or Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	interrupted, err := s.store.MarkInterrupted(ctx)
	if err != nil {
		return err
	}
	if interrupted > 0 {
		slog.Warn("failed sessions left over from previous run", "count", interrupted)
	}

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	slog.Info("session service started", "workers", s.config.Workers, "queueSize", s.config.QueueSize)
	return nil
}

// Shutdown stops intake, lets the workers drain the queue and waits for
// in-flight runs up to the context deadline.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.jobs)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("session service stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("session service shutdown: %w", ctx.Err())
	}
}

// Submit validates the request, provisions a browser and queues the run.
// It returns as soon as the session is queued; the live view URL on the
// returned session is usable immediately.
func (s *Service) Submit(ctx context.Context, params *SubmitParams) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	profile := params.Profile
	if profile == nil {
		profile = DefaultProfile()
	}

	bs, err := s.browsers.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("provision browser: %w", err)
	}

	now := time.Now().UTC()
	session := &Session{
		ID:           uuid.NewString(),
		UserID:       params.UserID,
		URL:          params.URL,
		ResumeURL:    params.ResumeURL,
		Instructions: params.Instructions,
		BrowserID:    bs.ID,
		LiveURL:      bs.LiveViewURL,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, session); err != nil {
		s.releaseBrowser(session.BrowserID)
		return nil, fmt.Errorf("persist session: %w", err)
	}

	j := &job{
		session:    session,
		profile:    profile,
		secrets:    params.Secrets,
		cdpWSURL:   bs.CDPWSURL,
		webhookURL: params.WebhookURL,
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.markFailed(ctx, session, "service is shutting down")
		s.releaseBrowser(session.BrowserID)
		return nil, ErrServiceStopped
	}
	var queued bool
	select {
	case s.jobs <- j:
		queued = true
	default:
	}
	s.mu.Unlock()

	if !queued {
		s.markFailed(ctx, session, "session queue is full")
		s.releaseBrowser(session.BrowserID)
		return nil, ErrQueueFull
	}

	slog.Info("session queued", "sessionId", session.ID, "userId", session.UserID, "url", session.URL)
	return session, nil
}

// GetSession returns the stored session or ErrSessionNotFound.
func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// ListSessions returns the user's most recent sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, userID string, limit int) ([]*Session, error) {
	return s.store.ListByUser(ctx, userID, limit)
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-s.jobs:
			if !ok {
				return
			}
			s.run(ctx, j)
		}
	}
}

func (s *Service) run(ctx context.Context, j *job) {
	session := j.session
	now := time.Now().UTC()
	session.Status = StatusRunning
	session.StartedAt = &now
	session.UpdatedAt = now
	if err := s.store.Update(ctx, session); err != nil {
		slog.Error("update session", "sessionId", session.ID, "error", err)
	}
	slog.Info("session started", "sessionId", session.ID, "userId", session.UserID)

	resumePath, err := s.resumes.Download(ctx, session.ResumeURL)
	if err != nil {
		s.finish(j, nil, err)
		return
	}
	defer func() {
		if err := s.resumes.Remove(resumePath); err != nil {
			slog.Warn("remove resume", "path", resumePath, "error", err)
		}
	}()

	task := &Task{
		SessionID:    session.ID,
		UserID:       session.UserID,
		URL:          session.URL,
		Prompt:       BuildPrompt(session.URL, j.profile, resumePath, session.Instructions),
		Profile:      j.profile,
		ResumePath:   resumePath,
		Instructions: session.Instructions,
		Secrets:      j.secrets,
		CDPWSURL:     j.cdpWSURL,
		LiveViewURL:  session.LiveURL,
	}

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	result, err := s.runner.Run(runCtx, task)
	cancel()

	s.finish(j, result, err)
}

// finish records the terminal state and fires the completion side effects.
// It runs on its own context so a server shutdown cannot cut it short.
func (s *Service) finish(j *job, result *RunResult, runErr error) {
	session := j.session
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	session.UpdatedAt = now
	session.FinishedAt = &now
	if runErr != nil {
		session.Status = StatusFailed
		session.Error = runErr.Error()
	} else {
		session.Status = StatusSucceeded
		if result != nil {
			session.Summary = result.Summary
			session.Usage = result.Usage
		}
	}

	if err := s.store.Update(ctx, session); err != nil {
		slog.Error("update session", "sessionId", session.ID, "error", err)
	}

	s.releaseBrowser(session.BrowserID)

	if j.webhookURL != "" {
		if err := s.hooks.Dispatch(ctx, j.webhookURL, newCompletionEvent(session)); err != nil {
			slog.Warn("dispatch completion webhook", "sessionId", session.ID, "error", err)
		}
	}
	if j.profile != nil && j.profile.Email != "" {
		if err := s.mailer.Send(ctx, completionEmail(j.profile, session)); err != nil {
			slog.Warn("send completion email", "sessionId", session.ID, "error", err)
		}
	}

	slog.Info("session finished",
		"sessionId", session.ID,
		"status", session.Status,
		"duration", session.Duration(),
		"totalTokens", session.Usage.TotalTokens,
		"totalCost", session.Usage.TotalCost,
	)
}

func (s *Service) markFailed(ctx context.Context, session *Session, reason string) {
	now := time.Now().UTC()
	session.Status = StatusFailed
	session.Error = reason
	session.UpdatedAt = now
	session.FinishedAt = &now
	if err := s.store.Update(ctx, session); err != nil {
		slog.Error("update session", "sessionId", session.ID, "error", err)
	}
}

// releaseBrowser always runs on a fresh context, shutdown included.
func (s *Service) releaseBrowser(browserID string) {
	if browserID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.browsers.Delete(ctx, browserID); err != nil {
		slog.Warn("delete browser session", "browserId", browserID, "error", err)
	}
}
