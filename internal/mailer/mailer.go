package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Mailer delivers the account lifecycle emails. Implementations must be safe
// for concurrent use.
type Mailer interface {
	SendAccountConfirmation(ctx context.Context, name, email, token string) error
	SendPasswordReset(ctx context.Context, name, email, token string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer configures a mailer against host:port. Auth is attached only
// when a username is supplied.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	m := &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
	if username != "" {
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

func (m *SMTPMailer) SendAccountConfirmation(ctx context.Context, name, email, token string) error {
	body := fmt.Sprintf(`
		<p>Hola: %s, has creado tu cuenta en CashTrackr, ya esta casi lista</p>
		<p>Visita el siguiente enlace:</p>
		<a href="#">Confirmar cuenta</a>
		<p>e ingresa el código: <b>%s</b></p>`, name, token)
	return m.send(ctx, email, "CashTrackr - Confirma tu cuenta", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, name, email, token string) error {
	body := fmt.Sprintf(`
		<p>Hola: %s, has solicitado reestablecer tu password</p>
		<p>Visita el siguiente enlace:</p>
		<a href="#">Reestablecer password</a>
		<p>e ingresa el código: <b>%s</b></p>`, name, token)
	return m.send(ctx, email, "CashTrackr - Reestablece tu password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	envelopeFrom := m.from
	if parsed, err := mail.ParseAddress(m.from); err == nil {
		envelopeFrom = parsed.Address
	}

	if err := smtp.SendMail(m.addr, m.auth, envelopeFrom, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer logs instead of sending. Used when no SMTP host is configured.
type LogMailer struct {
	Logger *logrus.Logger
}

func (m *LogMailer) SendAccountConfirmation(ctx context.Context, name, email, token string) error {
	m.Logger.WithFields(logrus.Fields{"email": email, "token": token}).
		Info("confirmation email (not sent, mail.host unset)")
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, name, email, token string) error {
	m.Logger.WithFields(logrus.Fields{"email": email, "token": token}).
		Info("password reset email (not sent, mail.host unset)")
	return nil
}
