// Package mail sends transactional email through SendGrid. Failures are
// logged, never surfaced to the request path: signup and task assignment
// must not fail because a notification could not be delivered.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/taskcollab/taskcollab/logger"
)

// Sender delivers a message to one or more recipients.
type Sender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// SendGridSender implements Sender on the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
	log    *logger.Logger
}

// NewSendGridSender creates a SendGrid-backed sender. The configuration
// must already be validated.
func NewSendGridSender(cfg Config, log *logger.Logger) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
		log:    log.WithComponent("mail"),
	}
}

// Send delivers an HTML message to all recipients in a single API call.
func (s *SendGridSender) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	p := sgmail.NewPersonalization()
	for _, r := range recipients {
		p.AddTos(sgmail.NewEmail("", r))
	}

	msg := sgmail.NewV3Mail()
	msg.SetFrom(s.from)
	msg.Subject = subject
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/html", body))

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}

	s.log.Debug("email sent", map[string]interface{}{
		"recipients": len(recipients),
		"subject":    subject,
	})
	return nil
}

// LogSender is a Sender for local development and tests. It records the
// message in the log instead of delivering it.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.WithComponent("mail")}
}

// Send logs the message and returns nil.
func (s *LogSender) Send(_ context.Context, recipients []string, subject, body string) error {
	s.log.Info("email (log only)", map[string]interface{}{
		"recipients": recipients,
		"subject":    subject,
		"body_bytes": len(body),
	})
	return nil
}

// SendAsync delivers the message in the background with a bounded timeout,
// logging any failure. Callers use it on paths where delivery must not
// block or fail the request.
func SendAsync(sender Sender, log *logger.Logger, recipients []string, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := sender.Send(ctx, recipients, subject, body); err != nil {
			log.WithComponent("mail").Warn("email delivery failed", map[string]interface{}{
				"subject": subject,
				"error":   err.Error(),
			})
		}
	}()
}
