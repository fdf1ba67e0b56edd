package mail

import (
	"fmt"
	"net/smtp"

	"github.com/centsible/centsible-backend/internal/config"
	"github.com/rs/zerolog/log"
)

// Mailer delivers account mail. Kept as an interface so services can be
// tested without a mail server.
type Mailer interface {
	SendPasswordResetCode(to, code string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendPasswordResetCode mails the 6-digit recovery code.
func (m *SMTPMailer) SendPasswordResetCode(to, code string) error {
	subject := "Password recovery"
	body := fmt.Sprintf("To reset your password, enter the following code:\r\n\r\n%s\r\n\r\nThe code expires in one hour.", code)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.cfg.From, to, subject, body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send password reset mail")
		return err
	}
	return nil
}
