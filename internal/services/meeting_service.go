package services

import (
	"context"
	"fmt"
	"time"

	"meetlink_backend/internal/auth"
	"meetlink_backend/internal/email"
	"meetlink_backend/internal/logger"
	"meetlink_backend/internal/meetinglink"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/internal/tasks"
	"meetlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MeetingService interface {
	Create(ctx context.Context, senderID string, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error)
	Get(ctx context.Context, callerID, meetingID string) (*dto.MeetingResponse, error)
	List(ctx context.Context, userID string, query *dto.MeetingListQuery, page, pageSize int) ([]dto.MeetingResponse, int64, error)
	Respond(ctx context.Context, callerID, meetingID string, req *dto.RespondMeetingRequest) (*dto.MeetingResponse, error)
	Cancel(ctx context.Context, callerID, meetingID string, reason string) (*dto.MeetingResponse, error)
	Complete(ctx context.Context, callerID, meetingID string) (*dto.MeetingResponse, error)
	UpdateNotes(ctx context.Context, callerID, meetingID, notes string) (*dto.MeetingResponse, error)
	CheckAvailability(ctx context.Context, recipientID string) (*dto.AvailabilityResponse, error)
}

type MeetingServiceImpl struct {
	db           *gorm.DB
	meetingRepo  repositories.MeetingRepository
	userRepo     repositories.UserRepository
	notifier     *email.Notifier
	linkProvider meetinglink.Provider
	runner       *tasks.Runner
}

func NewMeetingService(
	db *gorm.DB,
	meetingRepo repositories.MeetingRepository,
	userRepo repositories.UserRepository,
	notifier *email.Notifier,
	linkProvider meetinglink.Provider,
	runner *tasks.Runner,
) MeetingService {
	return &MeetingServiceImpl{
		db:           db,
		meetingRepo:  meetingRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		linkProvider: linkProvider,
		runner:       runner,
	}
}

// allowedTransitions - машина состояний запроса на встречу.
// rejected, cancelled и completed терминальны.
var allowedTransitions = map[models.MeetingStatus][]models.MeetingStatus{
	models.MeetingStatusPending: {
		models.MeetingStatusAccepted,
		models.MeetingStatusRejected,
		models.MeetingStatusModified,
		models.MeetingStatusCancelled,
	},
	// из modified получатель может только пере-решить, нового
	// контрпредложения не бывает
	models.MeetingStatusModified: {
		models.MeetingStatusAccepted,
		models.MeetingStatusRejected,
		models.MeetingStatusCancelled,
	},
	models.MeetingStatusAccepted: {
		models.MeetingStatusCompleted,
		models.MeetingStatusCancelled,
	},
}

func canTransition(from, to models.MeetingStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Create - новый запрос на встречу. Создание записи и инкременты
// счетчиков обеих сторон идут в одной транзакции.
func (s *MeetingServiceImpl) Create(ctx context.Context, senderID string, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	if senderID == req.RecipientID {
		return nil, apperrors.ErrSelfMeetingRequest
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	recipient, err := s.userRepo.FindByID(req.RecipientID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if !recipient.IsActive || !recipient.MeetingPreferences.Data().AcceptingRequests {
		return nil, apperrors.ErrNotAcceptingRequests
	}

	meeting := &models.MeetingRequest{
		SenderID:      senderID,
		RecipientID:   req.RecipientID,
		Duration:      req.Duration,
		MeetingType:   req.MeetingType,
		Purpose:       req.Purpose,
		MeetingFormat: req.MeetingFormat,
		ProposedDates: toProposedDates(req.ProposedDates),
		SenderNotes:   req.SenderNotes,
		Status:        models.MeetingStatusPending,
	}
	if meeting.MeetingFormat == "" {
		meeting.MeetingFormat = models.MeetingFormatOnline
	}
	if req.Location != nil {
		meeting.Location = datatypes.NewJSONType(*req.Location)
	}
	if req.Compensation != nil {
		meeting.Compensation = datatypes.NewJSONType(models.Compensation{
			Type:     req.Compensation.Type,
			Monetary: req.Compensation.Monetary,
			InKind:   req.Compensation.InKind,
		})
	} else {
		meeting.Compensation = datatypes.NewJSONType(models.Compensation{Type: models.CompensationNone})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.meetingRepo.WithTx(tx).Create(meeting); err != nil {
			return err
		}
		userTx := s.userRepo.WithTx(tx)
		if err := userTx.IncrementStats(senderID, repositories.StatRequestsSent); err != nil {
			return err
		}
		return userTx.IncrementStats(req.RecipientID, repositories.StatRequestsReceived)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	meeting.Sender = sender
	meeting.Recipient = recipient

	s.runner.Submit("meeting-request-email", func(taskCtx context.Context) error {
		return s.notifier.SendMeetingRequest(recipient, sender, meeting)
	})

	return dto.ToMeetingResponse(meeting), nil
}

// Get - запрос на встречу, виден только участникам
func (s *MeetingServiceImpl) Get(ctx context.Context, callerID, meetingID string) (*dto.MeetingResponse, error) {
	meeting, err := s.findMeeting(meetingID)
	if err != nil {
		return nil, err
	}

	if !s.authorize(callerID, meeting, auth.ActionMeetingView) {
		return nil, apperrors.ErrNotMeetingParticipant
	}
	return dto.ToMeetingResponse(meeting), nil
}

// List - встречи пользователя с фильтрами по роли и статусу
func (s *MeetingServiceImpl) List(ctx context.Context, userID string, query *dto.MeetingListQuery, page, pageSize int) ([]dto.MeetingResponse, int64, error) {
	role := repositories.MeetingRoleAll
	switch query.Role {
	case "sent":
		role = repositories.MeetingRoleSent
	case "received":
		role = repositories.MeetingRoleReceived
	}

	meetings, total, err := s.meetingRepo.FindForUser(userID, repositories.MeetingFilter{
		Role:     role,
		Status:   query.Status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return dto.ToMeetingResponses(meetings), total, nil
}

// Respond - решение получателя: accepted, rejected или modified
func (s *MeetingServiceImpl) Respond(ctx context.Context, callerID, meetingID string, req *dto.RespondMeetingRequest) (*dto.MeetingResponse, error) {
	meeting, err := s.findMeeting(meetingID)
	if err != nil {
		return nil, err
	}

	var action auth.Action
	switch req.Status {
	case models.MeetingStatusAccepted:
		action = auth.ActionMeetingAccept
	case models.MeetingStatusRejected:
		action = auth.ActionMeetingReject
	case models.MeetingStatusModified:
		action = auth.ActionMeetingModify
	default:
		return nil, apperrors.ErrInvalidOperation("meeting", "unsupported response status")
	}

	if !s.authorize(callerID, meeting, action) {
		return nil, apperrors.ErrNotMeetingRecipient
	}
	if !canTransition(meeting.Status, req.Status) {
		return nil, apperrors.ErrInvalidStatus("meeting", fmt.Sprintf("cannot transition from %s to %s", meeting.Status, req.Status))
	}

	response := models.MeetingResponse{
		Message:     req.Message,
		RespondedAt: time.Now(),
	}

	switch req.Status {
	case models.MeetingStatusAccepted:
		scheduledDate := req.ScheduledDate
		scheduledTime := req.ScheduledTime
		if scheduledDate == nil && len(meeting.ProposedDates) > 0 {
			first := meeting.ProposedDates[0]
			scheduledDate = &first.Date
			if scheduledTime == "" {
				scheduledTime = first.Time
			}
		}
		meeting.ScheduledDate = scheduledDate
		meeting.ScheduledTime = scheduledTime

	case models.MeetingStatusRejected:
		if req.RejectionReason == "" {
			return nil, apperrors.ErrInvalidOperation("meeting", "rejection reason is required")
		}
		meeting.RejectionReason = req.RejectionReason

	case models.MeetingStatusModified:
		response.Modifications = req.Modifications
	}

	meeting.Response = jsonTypePtr(response)
	previousStatus := meeting.Status
	meeting.Status = req.Status

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.meetingRepo.WithTx(tx).Update(meeting); err != nil {
			return err
		}

		userTx := s.userRepo.WithTx(tx)
		switch req.Status {
		case models.MeetingStatusAccepted:
			if err := userTx.IncrementStats(meeting.RecipientID, repositories.StatRequestsAccepted); err != nil {
				return err
			}
			return userTx.IncrementStats(meeting.SenderID, repositories.StatSentAccepted)
		case models.MeetingStatusRejected:
			if err := userTx.IncrementStats(meeting.RecipientID, repositories.StatRequestsRejected); err != nil {
				return err
			}
			return userTx.IncrementStats(meeting.SenderID, repositories.StatSentRejected)
		}
		return nil
	})
	if err != nil {
		// Откат статуса в памяти, запись не изменилась
		meeting.Status = previousStatus
		return nil, apperrors.InternalError(err)
	}

	switch req.Status {
	case models.MeetingStatusAccepted:
		s.scheduleAcceptedSideEffects(meeting)
	case models.MeetingStatusRejected:
		sender, recipient := meeting.Sender, meeting.Recipient
		reason := meeting.RejectionReason
		s.runner.Submit("meeting-rejected-email", func(taskCtx context.Context) error {
			return s.notifier.SendMeetingRejected(sender, recipient, reason)
		})
	}

	return dto.ToMeetingResponse(meeting), nil
}

// Cancel - отмена встречи любым участником. Ссылка на видеовстречу
// у провайдера не удаляется.
func (s *MeetingServiceImpl) Cancel(ctx context.Context, callerID, meetingID, reason string) (*dto.MeetingResponse, error) {
	meeting, err := s.findMeeting(meetingID)
	if err != nil {
		return nil, err
	}

	if !s.authorize(callerID, meeting, auth.ActionMeetingCancel) {
		return nil, apperrors.ErrNotMeetingParticipant
	}
	if !canTransition(meeting.Status, models.MeetingStatusCancelled) {
		return nil, apperrors.ErrInvalidStatus("meeting", fmt.Sprintf("cannot transition from %s to %s", meeting.Status, models.MeetingStatusCancelled))
	}

	meeting.Status = models.MeetingStatusCancelled
	// причина отмены пишется в заметки отменяющей стороны
	if reason != "" {
		if callerID == meeting.SenderID {
			meeting.SenderNotes = reason
		} else {
			meeting.RecipientNotes = reason
		}
	}

	if err := s.meetingRepo.Update(meeting); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToMeetingResponse(meeting), nil
}

// Complete - завершение принятой встречи, счетчики обеих сторон
// растут в той же транзакции
func (s *MeetingServiceImpl) Complete(ctx context.Context, callerID, meetingID string) (*dto.MeetingResponse, error) {
	meeting, err := s.findMeeting(meetingID)
	if err != nil {
		return nil, err
	}

	if !s.authorize(callerID, meeting, auth.ActionMeetingComplete) {
		return nil, apperrors.ErrNotMeetingParticipant
	}
	if !canTransition(meeting.Status, models.MeetingStatusCompleted) {
		return nil, apperrors.ErrInvalidStatus("meeting", fmt.Sprintf("cannot transition from %s to %s", meeting.Status, models.MeetingStatusCompleted))
	}

	meeting.Status = models.MeetingStatusCompleted

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.meetingRepo.WithTx(tx).Update(meeting); err != nil {
			return err
		}
		userTx := s.userRepo.WithTx(tx)
		if err := userTx.IncrementStats(meeting.SenderID, repositories.StatTotalMeetingsCompleted); err != nil {
			return err
		}
		return userTx.IncrementStats(meeting.RecipientID, repositories.StatTotalMeetingsCompleted)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToMeetingResponse(meeting), nil
}

// UpdateNotes - личные заметки участника, каждый видит и правит свои
func (s *MeetingServiceImpl) UpdateNotes(ctx context.Context, callerID, meetingID, notes string) (*dto.MeetingResponse, error) {
	meeting, err := s.findMeeting(meetingID)
	if err != nil {
		return nil, err
	}

	switch callerID {
	case meeting.SenderID:
		meeting.SenderNotes = notes
	case meeting.RecipientID:
		meeting.RecipientNotes = notes
	default:
		return nil, apperrors.ErrNotMeetingParticipant
	}

	if err := s.meetingRepo.Update(meeting); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToMeetingResponse(meeting), nil
}

// CheckAvailability - рекомендательная сводка загрузки получателя.
// Лимиты не запрещают создание запроса, клиент сам решает, что
// показывать отправителю.
func (s *MeetingServiceImpl) CheckAvailability(ctx context.Context, recipientID string) (*dto.AvailabilityResponse, error) {
	recipient, err := s.userRepo.FindByID(recipientID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// окна смотрят вперед: оценивается будущая загрузка получателя
	now := time.Now()
	weekEnd := now.AddDate(0, 0, 7)
	monthEnd := now.AddDate(0, 1, 0)

	weeklyCount, weeklyMinutes, err := s.meetingRepo.AcceptedLoad(recipientID, now, weekEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	monthlyCount, monthlyMinutes, err := s.meetingRepo.AcceptedLoad(recipientID, now, monthEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	limits := recipient.MeetingLimits.Data()
	prefs := recipient.MeetingPreferences.Data()

	available := prefs.AcceptingRequests &&
		weeklyCount < int64(limits.MaxMeetingsPerWeek) &&
		monthlyCount < int64(limits.MaxMeetingsPerMonth) &&
		weeklyMinutes < int64(limits.MaxHoursPerWeek)*60 &&
		monthlyMinutes < int64(limits.MaxHoursPerMonth)*60

	return &dto.AvailabilityResponse{
		Available:    available,
		WeeklyCount:  weeklyCount,
		MonthlyCount: monthlyCount,
		WeeklyHours:  float64(weeklyMinutes) / 60,
		MonthlyHours: float64(monthlyMinutes) / 60,
		Limits:       limits,
		AcceptingNow: prefs.AcceptingRequests,
	}, nil
}

// scheduleAcceptedSideEffects создает видеовстречу и шлет письмо
// отправителю. Ошибка провайдера не откатывает принятие: встреча
// остается accepted без ссылки.
func (s *MeetingServiceImpl) scheduleAcceptedSideEffects(meeting *models.MeetingRequest) {
	meetingID := meeting.ID
	sender, recipient := meeting.Sender, meeting.Recipient

	s.runner.Submit("meeting-accepted-side-effects", func(taskCtx context.Context) error {
		current, err := s.meetingRepo.FindByID(meetingID)
		if err != nil {
			return err
		}
		if current.Status != models.MeetingStatusAccepted {
			return nil
		}

		if current.MeetingFormat == models.MeetingFormatOnline && current.MeetingLink == "" {
			startTime := time.Now().Add(24 * time.Hour)
			if current.ScheduledDate != nil {
				startTime = *current.ScheduledDate
			}
			topic := fmt.Sprintf("%s with %s", current.MeetingType, sender.FullName())
			link, err := s.linkProvider.Create(taskCtx, topic, startTime, current.Duration)
			if err != nil {
				logger.Warn("Failed to create meeting link, meeting stays accepted without link",
					"meetingId", meetingID, "error", err)
			} else {
				current.MeetingLink = link.JoinURL
				current.MeetingPassword = link.Password
				current.ExternalMeetingID = link.ExternalID
				if err := s.meetingRepo.Update(current); err != nil {
					logger.Warn("Failed to persist meeting link", "meetingId", meetingID, "error", err)
				}
			}
		}

		return s.notifier.SendMeetingAccepted(sender, recipient, current)
	})
}

func (s *MeetingServiceImpl) findMeeting(meetingID string) (*models.MeetingRequest, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrMeetingNotFound) {
			return nil, apperrors.ErrMeetingNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return meeting, nil
}

func (s *MeetingServiceImpl) authorize(callerID string, meeting *models.MeetingRequest, action auth.Action) bool {
	return auth.CanActOnMeeting(
		auth.Caller{ID: callerID, Role: auth.RoleUser},
		auth.MeetingRefs{SenderID: meeting.SenderID, RecipientID: meeting.RecipientID},
		action,
	)
}

func toProposedDates(dates []dto.ProposedDateDTO) datatypes.JSONSlice[models.ProposedDate] {
	result := make([]models.ProposedDate, 0, len(dates))
	for _, d := range dates {
		result = append(result, models.ProposedDate{Date: d.Date, Time: d.Time})
	}
	return datatypes.NewJSONSlice(result)
}

func jsonTypePtr(resp models.MeetingResponse) *datatypes.JSONType[models.MeetingResponse] {
	jt := datatypes.NewJSONType(resp)
	return &jt
}
