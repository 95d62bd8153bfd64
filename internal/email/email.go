package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	ErrKeyMissing           = errors.New("sendgrid api key is not set")
	ErrInvalidMailSender    = errors.New("invalid mail sender")
	ErrInvalidMailRecipient = errors.New("invalid mail recipient")
)

// Service sends transactional mail through sendgrid. A disabled service
// accepts sends and drops them.
type Service struct {
	config *Config
}

func NewService(config *Config) *Service {
	return &Service{config: config}
}

func (s *Service) Send(ctx context.Context, info *EmailInfo) error {
	if !s.config.Enabled {
		slog.Debug("email disabled, not sending", "to", info.ToEmail, "subject", info.Subject)
		return nil
	}

	if s.config.SendgridAPIKey == "" {
		return ErrKeyMissing
	}

	fromEmail := info.FromEmail
	if fromEmail == "" {
		fromEmail = s.config.FromEmail
	}
	if fromEmail == "" {
		return ErrInvalidMailSender
	}

	if info.ToEmail == "" {
		return ErrInvalidMailRecipient
	}

	fromName := info.FromName
	if fromName == "" {
		fromName = s.config.FromName
	}
	if fromName == "" {
		fromName = fromEmail
	}

	toName := info.ToName
	if toName == "" {
		toName = info.ToEmail
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, info.ToEmail)
	message := mail.NewSingleEmail(from, info.Subject, to, info.TextBody, info.HTMLBody)

	client := sendgrid.NewSendClient(s.config.SendgridAPIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		slog.Error("failed to send email", "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Debug("email sent", "to", info.ToEmail, "status", resp.StatusCode, "messageId", resp.Headers["X-Message-Id"])
	return nil
}
