package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/vkushnir/contactbook/internal/server/config"
)

var resetTemplate = template.Must(template.New("reset").Parse(`<html>
<body>
  <p>We received a request to reset the password for your account.</p>
  <p><a href="{{.ResetLink}}">Reset your password</a></p>
  <p>The link is valid for 15 minutes. If you did not request a reset, you can ignore this message.</p>
</body>
</html>`))

// SMTPMailer sends mail over plain SMTP with optional AUTH.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer builds a mailer from the server config.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

// sendMail is a seam for testing smtp.SendMail.
var sendMail = smtp.SendMail

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, struct{ ResetLink string }{resetLink}); err != nil {
		return fmt.Errorf("error rendering reset template: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: Password Reset <%s>\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", email)
	msg.WriteString("Subject: Password Reset Request\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	if err := sendMail(m.addr, m.auth, m.from, []string{email}, msg.Bytes()); err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}
	return nil
}
