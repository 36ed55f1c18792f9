// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
)

// Mailer delivers account email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, code string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer builds a mailer. Auth is skipped when username is empty, for
// relays that allow unauthenticated submission from inside the network.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	m := &SMTPMailer{
		addr: net.JoinHostPort(host, port),
		from: from,
	}
	if username != "" {
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

// SendPasswordReset emails the six digit reset code.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, code string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	msg.WriteString("Subject: Your password reset code\r\n")
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "Your password reset code is %s. It expires in 10 minutes.\r\n", code)
	fmt.Fprintf(&msg, "If you did not request a reset, you can ignore this email.\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send reset email to %s: %w", to, err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)

// LogMailer writes mail to the process log instead of sending it. Used when
// no SMTP relay is configured, so local environments still surface codes.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, to, code string) error {
	log.Printf("mail disabled, password reset code for %s: %s", to, code)
	return nil
}

var _ Mailer = LogMailer{}
