package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/sofiamancini/bancore/internal/config"
)

// SMTPSink sends mail through a STARTTLS-capable SMTP relay.
type SMTPSink struct {
	host     string
	port     string
	username string
	password string
	from     string
}

var _ Sink = (*SMTPSink)(nil)

// NewSMTPSink creates a sink from SMTP configuration.
func NewSMTPSink(cfg *config.SMTPConfig) *SMTPSink {
	return &SMTPSink{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

// Send delivers a plain-text message. net/smtp has no context support, so
// cancellation is checked before dialing only.
func (s *SMTPSink) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := net.JoinHostPort(s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}

	return nil
}
