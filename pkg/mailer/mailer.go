package mailer

import (
	"context"
	"fmt"

	"campushub/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Mailer dispatches notification emails. Delivery is advisory: callers
// log failures and move on.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid-backed mailer when an API key is configured and
// a console mailer otherwise, so development environments work without
// credentials.
func New(apiKey, fromName, fromEmail string, log *logger.Logger) Mailer {
	if apiKey == "" {
		log.Info("No SendGrid API key configured, using console mailer")
		return &ConsoleMailer{log: log, fromEmail: fromEmail}
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromEmail),
	}
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	email := sgmail.NewSingleEmail(m.from, msg.Subject, to, msg.Body, "")

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}

// ConsoleMailer writes outgoing mail to the log instead of sending it.
type ConsoleMailer struct {
	log       *logger.Logger
	fromEmail string
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("Email (console)",
		"from", m.fromEmail,
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
