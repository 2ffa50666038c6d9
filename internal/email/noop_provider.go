package email

import "meetlink_backend/internal/logger"

// NoopProvider используется, когда SMTP не сконфигурирован. Письма
// не отправляются, только пишутся в лог.
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(email *Email) error {
	logger.Warn("Email configuration not set, skipping email", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *NoopProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	logger.Warn("Email configuration not set, skipping email", "to", to, "subject", subject, "template", templateName)
	return nil
}

func (p *NoopProvider) Validate() error { return nil }
func (p *NoopProvider) Close() error    { return nil }
