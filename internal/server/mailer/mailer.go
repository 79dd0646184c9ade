package mailer

import (
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers transactional storefront email
type Sender interface {
	// SendPasswordReset sends the reset link carrying the one-time token
	SendPasswordReset(to, token string) error
}

// SMTP sends mail through a configured SMTP relay
type SMTP struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string // public storefront URL used to build links
}

// NewSMTP creates an SMTP sender
func NewSMTP(host string, port int, username, password, from, baseURL string) *SMTP {
	return &SMTP{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		baseURL: baseURL,
	}
}

// SendPasswordReset sends the reset link carrying the one-time token
func (s *SMTP) SendPasswordReset(to, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Reset your LockMart password")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>We received a request to reset your password.</p>
<p><a href="%s/reset-password?token=%s">Choose a new password</a></p>
<p>The link expires in one hour. If you did not ask for this, ignore this email.</p>`,
		s.baseURL, token))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

// Disabled is used when no SMTP relay is configured; it logs the token
// so local development can still complete the reset flow.
type Disabled struct {
	Logger *slog.Logger
}

// SendPasswordReset logs instead of sending
func (d *Disabled) SendPasswordReset(to, token string) error {
	d.Logger.Info("mailer disabled, password reset token not emailed",
		slog.String("to", to),
		slog.String("token", token))
	return nil
}
