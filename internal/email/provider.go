package email

// Mailer - внешний канал доставки писем
type Mailer interface {
	// Send отправляет HTML письмо одному получателю
	Send(to, subject, html string) error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}

// TemplateData - данные для шаблонов писем
type TemplateData map[string]interface{}
