package dto

import (
	"time"

	"meetlink_backend/internal/models"
)

// CreateMeetingRequest - новый запрос на встречу
type CreateMeetingRequest struct {
	RecipientID   string               `json:"recipientId" binding:"required"`
	Duration      int                  `json:"duration" binding:"required,min=15,max=480"`
	MeetingType   models.MeetingType   `json:"meetingType" binding:"required" validate:"is-meeting-type"`
	Purpose       string               `json:"purpose" binding:"required,max=1000"`
	MeetingFormat models.MeetingFormat `json:"meetingFormat,omitempty" validate:"omitempty,is-meeting-format"`
	ProposedDates []ProposedDateDTO    `json:"proposedDates" binding:"required,min=1,max=5,dive"`
	Location      *models.Location     `json:"location,omitempty"`
	Compensation  *CompensationDTO     `json:"compensation,omitempty"`
	SenderNotes   string               `json:"senderNotes,omitempty" binding:"omitempty,max=1000"`
}

type ProposedDateDTO struct {
	Date time.Time `json:"date" binding:"required"`
	Time string    `json:"time" binding:"required"`
}

type CompensationDTO struct {
	Type     models.CompensationType `json:"type" binding:"required" validate:"is-compensation-type"`
	Monetary *models.MonetaryOffer   `json:"monetary,omitempty"`
	InKind   *models.InKindOffer     `json:"inKind,omitempty"`
}

// RespondMeetingRequest - ответ получателя на запрос: accepted,
// rejected или modified
type RespondMeetingRequest struct {
	Status          models.MeetingStatus  `json:"status" binding:"required,oneof=accepted rejected modified"`
	Message         string                `json:"message,omitempty" binding:"omitempty,max=1000"`
	ScheduledDate   *time.Time            `json:"scheduledDate,omitempty"`
	ScheduledTime   string                `json:"scheduledTime,omitempty"`
	RejectionReason string                `json:"rejectionReason,omitempty" binding:"required_if=Status rejected,omitempty,max=500"`
	Modifications   *models.Modifications `json:"modifications,omitempty"`
}

// CancelMeetingRequest - отмена встречи участником
type CancelMeetingRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// UpdateNotesRequest - заметки участника о встрече
type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// MeetingListQuery - фильтры списка встреч пользователя
type MeetingListQuery struct {
	Role   string               `form:"role" binding:"omitempty,oneof=all sent received"`
	Status models.MeetingStatus `form:"status" validate:"omitempty,is-meeting-status"`
}

// ParticipantDTO - краткая карточка участника внутри встречи
type ParticipantDTO struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage,omitempty"`
	Email        string `json:"email,omitempty"`
}

// MeetingResponse - проекция запроса на встречу
type MeetingResponse struct {
	ID                string                  `json:"id"`
	SenderID          string                  `json:"senderId"`
	RecipientID       string                  `json:"recipientId"`
	Sender            *ParticipantDTO         `json:"sender,omitempty"`
	Recipient         *ParticipantDTO         `json:"recipient,omitempty"`
	Duration          int                     `json:"duration"`
	MeetingType       models.MeetingType      `json:"meetingType"`
	Purpose           string                  `json:"purpose"`
	MeetingFormat     models.MeetingFormat    `json:"meetingFormat"`
	ProposedDates     []models.ProposedDate   `json:"proposedDates"`
	ScheduledDate     *time.Time              `json:"scheduledDate,omitempty"`
	ScheduledTime     string                  `json:"scheduledTime,omitempty"`
	Location          models.Location         `json:"location"`
	Compensation      models.Compensation     `json:"compensation"`
	TotalCompensation float64                 `json:"totalCompensation"`
	Response          *models.MeetingResponse `json:"response,omitempty"`
	Payment           models.PaymentInfo      `json:"paymentStatus"`
	Status            models.MeetingStatus    `json:"status"`
	RejectionReason   string                  `json:"rejectionReason,omitempty"`
	MeetingLink       string                  `json:"meetingLink,omitempty"`
	MeetingPassword   string                  `json:"meetingPassword,omitempty"`
	SenderNotes       string                  `json:"senderNotes,omitempty"`
	RecipientNotes    string                  `json:"recipientNotes,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// AvailabilityResponse - рекомендательная сводка загрузки получателя.
// Превышение лимитов не запрещает создание запроса.
type AvailabilityResponse struct {
	Available     bool                 `json:"available"`
	WeeklyCount   int64                `json:"weeklyCount"`
	MonthlyCount  int64                `json:"monthlyCount"`
	WeeklyHours   float64              `json:"weeklyHours"`
	MonthlyHours  float64              `json:"monthlyHours"`
	Limits        models.MeetingLimits `json:"limits"`
	AcceptingNow  bool                 `json:"acceptingRequests"`
}

func ToParticipantDTO(u *models.User, includeEmail bool) *ParticipantDTO {
	if u == nil {
		return nil
	}
	p := &ParticipantDTO{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
	}
	if includeEmail {
		p.Email = u.Email
	}
	return p
}

func ToMeetingResponse(m *models.MeetingRequest) *MeetingResponse {
	resp := &MeetingResponse{
		ID:                m.ID,
		SenderID:          m.SenderID,
		RecipientID:       m.RecipientID,
		Sender:            ToParticipantDTO(m.Sender, false),
		Recipient:         ToParticipantDTO(m.Recipient, false),
		Duration:          m.Duration,
		MeetingType:       m.MeetingType,
		Purpose:           m.Purpose,
		MeetingFormat:     m.MeetingFormat,
		ProposedDates:     m.ProposedDates,
		ScheduledDate:     m.ScheduledDate,
		ScheduledTime:     m.ScheduledTime,
		Location:          m.Location.Data(),
		Compensation:      m.Compensation.Data(),
		TotalCompensation: m.TotalCompensation(),
		Payment:           m.Payment,
		Status:            m.Status,
		RejectionReason:   m.RejectionReason,
		MeetingLink:       m.MeetingLink,
		MeetingPassword:   m.MeetingPassword,
		SenderNotes:       m.SenderNotes,
		RecipientNotes:    m.RecipientNotes,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.Response != nil {
		data := m.Response.Data()
		resp.Response = &data
	}
	return resp
}

func ToMeetingResponses(meetings []models.MeetingRequest) []MeetingResponse {
	result := make([]MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, *ToMeetingResponse(&meetings[i]))
	}
	return result
}
