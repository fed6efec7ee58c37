// Package email envía correos transaccionales (OTP, reset de password).
package email

import (
	"fmt"

	"github.com/edustack/edustack-server/internal/observability/logger"
	mail "github.com/go-mail/mail"
)

// Sender abstrae el envío de correo.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// SMTPSender implementa Sender usando SMTP.
type SMTPSender struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

// NewSMTPSender crea un SMTPSender.
func NewSMTPSender(host string, port int, from, user, pass string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, From: from, User: user, Pass: pass}
}

// Send envía un email con contenido HTML y texto plano.
func (s *SMTPSender) Send(to, subject, htmlBody, textBody string) error {
	log := logger.L().With(
		logger.Component("email.smtp"),
		logger.String("to", to),
	)

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	if textBody != "" {
		m.SetBody("text/plain", textBody)
		if htmlBody != "" {
			m.AddAlternative("text/html", htmlBody)
		}
	} else {
		m.SetBody("text/html", htmlBody)
	}

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	if err := d.DialAndSend(m); err != nil {
		log.Error("send failed", logger.Err(err))
		return fmt.Errorf("email: send: %w", err)
	}

	log.Debug("email sent", logger.String("subject", subject))
	return nil
}

// NopSender descarta correos. Usado en dev cuando SMTP no está configurado
// y en tests.
type NopSender struct{}

func (NopSender) Send(to, subject, htmlBody, textBody string) error {
	logger.L().Info("email suppressed (no SMTP configured)",
		logger.Component("email.nop"),
		logger.String("to", to),
		logger.String("subject", subject),
	)
	return nil
}
