package email

import (
	"fmt"

	"meetlink_backend/internal/models"
)

// Notifier - доменный слой над Provider: собирает данные для шаблонов
// доменных писем. Все методы best-effort, вызываются из фоновых задач.
type Notifier struct {
	provider  Provider
	clientURL string
}

func NewNotifier(provider Provider, clientURL string) *Notifier {
	return &Notifier{provider: provider, clientURL: clientURL}
}

func (n *Notifier) SendMeetingRequest(recipient, sender *models.User, meeting *models.MeetingRequest) error {
	subject := fmt.Sprintf("New Meeting Request from %s", sender.FullName())
	return n.provider.SendTemplate([]string{recipient.Email}, subject, TemplateMeetingRequest, TemplateData{
		"SenderName":    sender.FullName(),
		"MeetingType":   meeting.MeetingType,
		"Duration":      meeting.Duration,
		"MeetingFormat": meeting.MeetingFormat,
		"Purpose":       meeting.Purpose,
		"ClientURL":     n.clientURL,
	})
}

func (n *Notifier) SendMeetingAccepted(sender, recipient *models.User, meeting *models.MeetingRequest) error {
	subject := fmt.Sprintf("Meeting Request Accepted by %s", recipient.FullName())
	scheduledDate := ""
	if meeting.ScheduledDate != nil {
		scheduledDate = meeting.ScheduledDate.Format("02 Jan 2006")
	}
	return n.provider.SendTemplate([]string{sender.Email}, subject, TemplateMeetingAccepted, TemplateData{
		"RecipientName":   recipient.FullName(),
		"ScheduledDate":   scheduledDate,
		"ScheduledTime":   meeting.ScheduledTime,
		"Duration":        meeting.Duration,
		"MeetingFormat":   meeting.MeetingFormat,
		"MeetingLink":     meeting.MeetingLink,
		"MeetingPassword": meeting.MeetingPassword,
		"MeetingID":       meeting.ID,
		"ClientURL":       n.clientURL,
	})
}

func (n *Notifier) SendMeetingRejected(sender, recipient *models.User, reason string) error {
	subject := fmt.Sprintf("Meeting Request Update from %s", recipient.FullName())
	return n.provider.SendTemplate([]string{sender.Email}, subject, TemplateMeetingRejected, TemplateData{
		"RecipientName": recipient.FullName(),
		"Reason":        reason,
		"ClientURL":     n.clientURL,
	})
}

func (n *Notifier) SendPasswordReset(user *models.User, token string) error {
	return n.provider.SendTemplate([]string{user.Email}, "Password Reset", TemplatePasswordReset, TemplateData{
		"Token":     token,
		"ClientURL": n.clientURL,
	})
}

func (n *Notifier) SendVerification(user *models.User, token string) error {
	return n.provider.SendTemplate([]string{user.Email}, "Verify Your Email", TemplateEmailVerify, TemplateData{
		"Token":     token,
		"ClientURL": n.clientURL,
	})
}
