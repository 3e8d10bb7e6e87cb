package email

import (
	"edulearn_backend/internal/logger"
)

// LogMailer пишет письма в лог вместо отправки.
// Используется в development, когда SMTP не настроен.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(to, subject, html string) error {
	logger.Info("email not sent (log mailer)", "to", to, "subject", subject)
	logger.Debug("email body", "to", to, "html", html)
	return nil
}
