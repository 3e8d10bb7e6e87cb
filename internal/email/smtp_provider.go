package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer отправляет письма через SMTP (gomail)
type SMTPMailer struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	if err := m.Validate(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.FromEmail, m.config.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// Validate проверяет конфигурацию SMTP
func (m *SMTPMailer) Validate() error {
	if m.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if m.config.Port <= 0 || m.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", m.config.Port)
	}
	if m.config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}
