package server

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/stapply-ai/agent/internal/agent"
	"github.com/stapply-ai/agent/internal/browser"
	"github.com/stapply-ai/agent/internal/email"
	"github.com/stapply-ai/agent/internal/resume"
	"github.com/stapply-ai/agent/internal/webhook"
)

type Services struct {
	Sessions *agent.Service
	Email    *email.Service
}

func NewServices(config *Config, db *sqlx.DB) (*Services, error) {
	store, err := agent.NewSessionStore(db)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}

	resumes, err := resume.NewDownloader(config.UploadsDir())
	if err != nil {
		return nil, fmt.Errorf("create resume downloader: %w", err)
	}

	emailSvc := email.NewService(&config.Email)

	sessionSvc := agent.NewService(&config.Agent, agent.ServiceOpts{
		Store:       store,
		Provisioner: browser.NewClient(&config.Browser),
		Runner:      agent.NewHandoffRunner(),
		Resumes:     resumes,
		Webhooks:    webhook.NewDispatcher(&config.Webhook),
		Mailer:      emailSvc,
	})

	return &Services{
		Sessions: sessionSvc,
		Email:    emailSvc,
	}, nil
}

func (s *Services) Start(ctx context.Context) error {
	if err := s.Sessions.Start(ctx); err != nil {
		return fmt.Errorf("start session service: %w", err)
	}
	return nil
}

func (s *Services) Shutdown(ctx context.Context) error {
	if err := s.Sessions.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop session service: %w", err)
	}
	return nil
}
