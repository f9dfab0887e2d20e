// Package mailer delivers transactional email over SMTP. No current route
// sends mail; the package is kept as a utility for callers that do.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

const sendTimeout = 30 * time.Second

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

func New(host string, port int, username, password, from string, logger *slog.Logger) (*Mailer, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &Mailer{client: client, from: from, logger: logger}, nil
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// SendAsync delivers in the background; failures are logged, not surfaced.
func (m *Mailer) SendAsync(msg Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := m.Send(ctx, msg); err != nil {
			m.logger.Error("sending mail", "to", msg.To, "error", err)
		}
	}()
}
