// Package mailer sends transactional emails over SMTP. It exists for
// best-effort notices (contract terminations); callers log and move on
// when it fails.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer holds SMTP server configuration. The zero value is a disabled
// mailer whose Send is a no-op.
type Mailer struct {
	Host   string
	Port   string
	User   string
	Pass   string
	Sender string
}

// Enabled reports whether the mailer has enough configuration to send.
func (m *Mailer) Enabled() bool {
	return m != nil && m.Host != "" && m.Sender != ""
}

// Send delivers one message. The Content-Type is inferred from the
// body: anything containing an <html> or <p> tag goes out as HTML.
func (m *Mailer) Send(recipient, subject, body string) error {
	if !m.Enabled() {
		return nil
	}
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	if strings.Contains(strings.ToLower(body), "<html>") || strings.Contains(strings.ToLower(body), "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.Sender, subject, contentType, body))

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, auth, m.Sender, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
