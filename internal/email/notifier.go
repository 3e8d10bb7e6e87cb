package email

import (
	"fmt"
	"time"
)

// Notifier рендерит шаблоны и отправляет письма сброса пароля
type Notifier struct {
	mailer   Mailer
	renderer TemplateRenderer
}

func NewNotifier(mailer Mailer, renderer TemplateRenderer) *Notifier {
	return &Notifier{mailer: mailer, renderer: renderer}
}

// SendResetCode отправляет шестизначный код
func (n *Notifier) SendResetCode(to, name, code string, ttl time.Duration) error {
	html, err := n.renderer.Render(TemplateResetCode, TemplateData{
		"Name":    name,
		"Code":    code,
		"Minutes": int(ttl.Minutes()),
	})
	if err != nil {
		return fmt.Errorf("render reset code email: %w", err)
	}
	return n.mailer.Send(to, "Code de réinitialisation - EduLearn", html)
}

// SendPasswordChanged - подтверждение смены пароля
func (n *Notifier) SendPasswordChanged(to, name string) error {
	html, err := n.renderer.Render(TemplatePasswordChanged, TemplateData{"Name": name})
	if err != nil {
		return fmt.Errorf("render password changed email: %w", err)
	}
	return n.mailer.Send(to, "Mot de passe modifié - EduLearn", html)
}
