package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/config"

	"github.com/jordan-wright/email"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Mailer wraps SMTP configuration for sending report spreadsheets.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.host != "" }

// EnviarAdjunto sends body to `to` with the in-memory file attached.
func (m *Mailer) EnviarAdjunto(to, subject, body, filename string, data []byte) error {
	if !m.Configurado() {
		return fmt.Errorf("mailer: SMTP_HOST no configurado")
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if len(data) > 0 {
		if _, err := e.Attach(bytes.NewReader(data), filename, mimeXLSX); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", filename, err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
