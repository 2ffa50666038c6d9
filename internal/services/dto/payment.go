package dto

import "time"

// CreateIntentRequest - создание платежного намерения по запросу на встречу
type CreateIntentRequest struct {
	MeetingRequestID string  `json:"meetingRequestId" binding:"required"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	Currency         string  `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// CreateIntentResponse - данные для подтверждения платежа на клиенте
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// ConfirmPaymentRequest - фиксация успешного платежа
type ConfirmPaymentRequest struct {
	PaymentIntentID  string `json:"paymentIntentId" binding:"required"`
	MeetingRequestID string `json:"meetingRequestId" binding:"required"`
}

// PaymentHistoryItem - один платеж в истории отправителя
type PaymentHistoryItem struct {
	MeetingRequestID string     `json:"meetingRequestId"`
	RecipientName    string     `json:"recipientName"`
	Amount           float64    `json:"amount"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	RequestFeePaid   bool       `json:"requestFeePaid"`
	MeetingFeePaid   bool       `json:"meetingFeePaid"`
}

// PaymentHistoryResponse - история платежей с общей суммой
type PaymentHistoryResponse struct {
	Payments   []PaymentHistoryItem `json:"payments"`
	TotalSpent float64              `json:"totalSpent"`
}
