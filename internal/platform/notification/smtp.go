package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender sends email through a plain SMTP relay.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string

	templates *TemplateEngine
}

func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	return &SMTPSender{
		Host: host, Port: port, User: user, Pass: pass, From: from,
		templates: NewTemplateEngine(),
	}
}

func (s *SMTPSender) SendEmail(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var msg strings.Builder
	msg.WriteString("From: " + s.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// SendPasswordReset satisfies the auth mailer interface by rendering the
// built-in password-reset template.
func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	subject, body, _, err := s.templates.Render("password-reset", map[string]string{
		"reset_link": resetLink,
	})
	if err != nil {
		return err
	}
	return s.SendEmail(ctx, to, subject, body)
}
