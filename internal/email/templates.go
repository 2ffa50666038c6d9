package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Имена встроенных шаблонов
const (
	TemplateMeetingRequest  = "meeting_request"
	TemplateMeetingAccepted = "meeting_accepted"
	TemplateMeetingRejected = "meeting_rejected"
	TemplatePasswordReset   = "password_reset"
	TemplateEmailVerify     = "email_verify"
)

// TemplateManager реализует TemplateRenderer поверх html/template
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с уже зарегистрированными
// встроенными шаблонами
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range defaultTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

var defaultTemplates = map[string]string{
	TemplateMeetingRequest: `
<h2>New Meeting Request</h2>
<p>You have received a new meeting request from <strong>{{.SenderName}}</strong>.</p>

<h3>Meeting Details:</h3>
<ul>
  <li><strong>Type:</strong> {{.MeetingType}}</li>
  <li><strong>Duration:</strong> {{.Duration}} minutes</li>
  <li><strong>Format:</strong> {{.MeetingFormat}}</li>
</ul>

<p><strong>Purpose:</strong></p>
<p>{{.Purpose}}</p>

<p>Please log in to your account to respond to this request.</p>

<p>
  <a href="{{.ClientURL}}/meetings/received"
     style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">
    View Request
  </a>
</p>`,

	TemplateMeetingAccepted: `
<h2>Meeting Request Accepted!</h2>
<p><strong>{{.RecipientName}}</strong> has accepted your meeting request.</p>

<h3>Meeting Details:</h3>
<ul>
  <li><strong>Date:</strong> {{.ScheduledDate}}</li>
  <li><strong>Time:</strong> {{.ScheduledTime}}</li>
  <li><strong>Duration:</strong> {{.Duration}} minutes</li>
  <li><strong>Format:</strong> {{.MeetingFormat}}</li>
</ul>

{{if .MeetingLink}}
<p><strong>Meeting Link:</strong></p>
<p><a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>
{{if .MeetingPassword}}<p><strong>Password:</strong> {{.MeetingPassword}}</p>{{end}}
{{end}}

<p>
  <a href="{{.ClientURL}}/meetings/{{.MeetingID}}"
     style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">
    View Meeting Details
  </a>
</p>`,

	TemplateMeetingRejected: `
<h2>Meeting Request Update</h2>
<p><strong>{{.RecipientName}}</strong> has declined your meeting request.</p>

{{if .Reason}}
<p><strong>Reason:</strong></p>
<p>{{.Reason}}</p>
{{end}}

<p>Don't give up! You can try reaching out to other professionals on our platform.</p>

<p>
  <a href="{{.ClientURL}}/search"
     style="background-color: #2196F3; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">
    Find Other Professionals
  </a>
</p>`,

	TemplatePasswordReset: `
<h2>Password Reset</h2>
<p>You requested a password reset for your account.</p>
<p>Click the link below to set a new password. The link expires in one hour.</p>

<p>
  <a href="{{.ClientURL}}/reset-password/{{.Token}}"
     style="background-color: #2196F3; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">
    Reset Password
  </a>
</p>

<p>If you did not request this, you can safely ignore this email.</p>`,

	TemplateEmailVerify: `
<h2>Verify Your Email</h2>
<p>Thanks for signing up! Please confirm your email address.</p>

<p>
  <a href="{{.ClientURL}}/verify-email/{{.Token}}"
     style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">
    Verify Email
  </a>
</p>`,
}
