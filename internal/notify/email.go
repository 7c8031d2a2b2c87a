// Package notify delivers transactional email (account verification) through
// SendGrid, behind a small interface so callers never depend on the vendor.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"telehealth-server/internal/config"
)

// EmailSender sends a single email message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // plain text
	HTML    string // optional HTML body
}

// SendGridSender sends email via the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSender builds an EmailSender from the mailer config. Without an API key
// it returns a no-op sender that only logs, so development setups work
// without credentials.
func NewSender(cfg config.MailerConfig) EmailSender {
	if cfg.SendGridAPIKey == "" {
		return &logSender{}
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

// Send sends an email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}

// logSender is used when no SendGrid API key is configured.
type logSender struct{}

func (l *logSender) Send(_ context.Context, msg EmailMessage) error {
	log.Printf("mailer not configured, dropping email to %s (%q)", msg.To, msg.Subject)
	return nil
}
