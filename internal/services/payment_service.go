package services

import (
	"context"
	"math"
	"strings"
	"time"

	"meetlink_backend/internal/auth"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/payments"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/pkg/apperrors"
)

type PaymentService interface {
	CreateIntent(ctx context.Context, callerID string, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error)
	ConfirmPayment(ctx context.Context, callerID string, req *dto.ConfirmPaymentRequest) (*dto.MeetingResponse, error)
	History(ctx context.Context, callerID string, page, pageSize int) (*dto.PaymentHistoryResponse, int64, error)
}

type PaymentServiceImpl struct {
	meetingRepo repositories.MeetingRepository
	provider    payments.Provider
}

func NewPaymentService(meetingRepo repositories.MeetingRepository, provider payments.Provider) PaymentService {
	return &PaymentServiceImpl{
		meetingRepo: meetingRepo,
		provider:    provider,
	}
}

// CreateIntent - платежное намерение по запросу на встречу. Платит
// всегда отправитель запроса. Сумма в API в единицах валюты,
// провайдеру уходит в центах.
func (s *PaymentServiceImpl) CreateIntent(ctx context.Context, callerID string, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidPaymentAmount
	}

	meeting, err := s.findMeeting(req.MeetingRequestID)
	if err != nil {
		return nil, err
	}

	if !auth.CanActOnMeeting(
		auth.Caller{ID: callerID, Role: auth.RoleUser},
		auth.MeetingRefs{SenderID: meeting.SenderID, RecipientID: meeting.RecipientID},
		auth.ActionMeetingPay,
	) {
		return nil, apperrors.ErrNotMeetingParticipant
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	amountCents := int64(math.Round(req.Amount * 100))
	intent, err := s.provider.CreateIntent(ctx, amountCents, strings.ToLower(currency), map[string]string{
		"meetingRequestId": meeting.ID,
		"senderId":         meeting.SenderID,
		"recipientId":      meeting.RecipientID,
	})
	if err != nil {
		return nil, apperrors.ErrUpstream(err, "payments", "Failed to create payment intent")
	}

	meeting.Payment.PaymentIntentID = intent.ID
	if err := s.meetingRepo.Update(meeting); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

// ConfirmPayment - фиксация платежа после подтверждения на клиенте.
// Статус намерения перепроверяется у провайдера.
func (s *PaymentServiceImpl) ConfirmPayment(ctx context.Context, callerID string, req *dto.ConfirmPaymentRequest) (*dto.MeetingResponse, error) {
	meeting, err := s.findMeeting(req.MeetingRequestID)
	if err != nil {
		return nil, err
	}

	if !auth.CanActOnMeeting(
		auth.Caller{ID: callerID, Role: auth.RoleUser},
		auth.MeetingRefs{SenderID: meeting.SenderID, RecipientID: meeting.RecipientID},
		auth.ActionMeetingPay,
	) {
		return nil, apperrors.ErrNotMeetingParticipant
	}

	if meeting.Payment.PaymentIntentID != req.PaymentIntentID {
		return nil, apperrors.ErrInvalidOperation("payments", "payment intent does not belong to this meeting request")
	}

	intent, err := s.provider.GetIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, apperrors.ErrUpstream(err, "payments", "Failed to verify payment intent")
	}

	if intent.Status != payments.StatusSucceeded {
		return nil, apperrors.ErrPaymentNotCompleted
	}

	now := time.Now()
	meeting.Payment.RequestFeePaid = true
	meeting.Payment.MeetingFeePaid = true
	// присваивание, а не накопление: повторное подтверждение того же
	// интента не задваивает сумму
	meeting.Payment.TotalPaid = float64(intent.Amount) / 100
	meeting.Payment.PaidAt = &now

	if err := s.meetingRepo.Update(meeting); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return dto.ToMeetingResponse(meeting), nil
}

// History - платежи отправителя с общей потраченной суммой
func (s *PaymentServiceImpl) History(ctx context.Context, callerID string, page, pageSize int) (*dto.PaymentHistoryResponse, int64, error) {
	meetings, total, err := s.meetingRepo.PaymentHistory(callerID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	totalSpent, err := s.meetingRepo.TotalSpent(callerID)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	items := make([]dto.PaymentHistoryItem, 0, len(meetings))
	for i := range meetings {
		m := &meetings[i]
		recipientName := ""
		if m.Recipient != nil {
			recipientName = m.Recipient.FullName()
		}
		items = append(items, dto.PaymentHistoryItem{
			MeetingRequestID: m.ID,
			RecipientName:    recipientName,
			Amount:           m.Payment.TotalPaid,
			PaidAt:           m.Payment.PaidAt,
			RequestFeePaid:   m.Payment.RequestFeePaid,
			MeetingFeePaid:   m.Payment.MeetingFeePaid,
		})
	}

	return &dto.PaymentHistoryResponse{
		Payments:   items,
		TotalSpent: totalSpent,
	}, total, nil
}

func (s *PaymentServiceImpl) findMeeting(meetingID string) (*models.MeetingRequest, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrMeetingNotFound) {
			return nil, apperrors.ErrMeetingNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return meeting, nil
}
