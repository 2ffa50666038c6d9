package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProposedDate struct {
	Date time.Time `json:"date"`
	Time string    `json:"time"`
}

type MonetaryOffer struct {
	RequestFee float64 `json:"requestFee"`
	Tip        float64 `json:"tip"`
	MeetingFee float64 `json:"meetingFee"`
	MaxAmount  float64 `json:"maxAmount"`
	Currency   string  `json:"currency"`
}

type InKindOffer struct {
	Description    string  `json:"description"`
	EstimatedValue float64 `json:"estimatedValue"`
}

type Compensation struct {
	Type     CompensationType `json:"type"`
	Monetary *MonetaryOffer   `json:"monetary,omitempty"`
	InKind   *InKindOffer     `json:"inKind,omitempty"`
}

// Modifications - встречное предложение получателя при ответе "modified"
type Modifications struct {
	ProposedDates      []ProposedDate `json:"proposedDates,omitempty"`
	Duration           int            `json:"duration,omitempty"`
	Location           *Location      `json:"location,omitempty"`
	CompensationAmount float64        `json:"compensationAmount,omitempty"`
	Other              string         `json:"other,omitempty"`
}

type MeetingResponse struct {
	Message       string         `json:"message,omitempty"`
	RespondedAt   time.Time      `json:"respondedAt"`
	Modifications *Modifications `json:"modifications,omitempty"`
}

// PaymentInfo лежит в отдельных колонках: по ним фильтруется история
// платежей и считается выручка платформы
type PaymentInfo struct {
	RequestFeePaid  bool       `gorm:"default:false" json:"requestFeePaid"`
	MeetingFeePaid  bool       `gorm:"default:false" json:"meetingFeePaid"`
	TotalPaid       float64    `gorm:"default:0" json:"totalPaid"`
	PaymentIntentID string     `json:"paymentIntentId,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
}

type MeetingRequest struct {
	BaseModel
	SenderID    string `gorm:"not null;index" json:"senderId"`
	RecipientID string `gorm:"not null;index" json:"recipientId"`

	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`

	Duration      int           `gorm:"not null" json:"duration"`
	MeetingType   MeetingType   `gorm:"type:varchar(30);not null" json:"meetingType"`
	Purpose       string        `gorm:"type:varchar(1000);not null" json:"purpose"`
	MeetingFormat MeetingFormat `gorm:"type:varchar(20);default:'online'" json:"meetingFormat"`

	ProposedDates datatypes.JSONSlice[ProposedDate] `json:"proposedDates"`
	ScheduledDate *time.Time                        `gorm:"index" json:"scheduledDate,omitempty"`
	ScheduledTime string                            `json:"scheduledTime,omitempty"`

	Location     datatypes.JSONType[Location]        `json:"location"`
	Compensation datatypes.JSONType[Compensation]    `json:"compensation"`
	Response     *datatypes.JSONType[MeetingResponse] `json:"response,omitempty"`

	Payment PaymentInfo `gorm:"embedded;embeddedPrefix:pay_" json:"paymentStatus"`

	Status          MeetingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason string        `gorm:"type:varchar(500)" json:"rejectionReason,omitempty"`

	MeetingLink       string `json:"meetingLink,omitempty"`
	MeetingPassword   string `json:"meetingPassword,omitempty"`
	ExternalMeetingID string `json:"-"`

	SenderNotes    string `gorm:"type:varchar(1000)" json:"senderNotes,omitempty"`
	RecipientNotes string `gorm:"type:varchar(1000)" json:"recipientNotes,omitempty"`
}

// TotalCompensation - суммарное денежное предложение; для немонетарной
// компенсации всегда 0
func (m *MeetingRequest) TotalCompensation() float64 {
	c := m.Compensation.Data()
	if c.Type != CompensationMonetary || c.Monetary == nil {
		return 0
	}
	return c.Monetary.RequestFee + c.Monetary.Tip + c.Monetary.MeetingFee
}

func (m *MeetingRequest) IsParticipant(userID string) bool {
	return m.SenderID == userID || m.RecipientID == userID
}
