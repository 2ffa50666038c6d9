package services

import (
	"context"
	"testing"
	"time"

	"meetlink_backend/internal/email"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRequestFixture(recipientID string) *dto.CreateMeetingRequest {
	return &dto.CreateMeetingRequest{
		RecipientID: recipientID,
		Duration:    30,
		MeetingType: models.MeetingTypeExpertAdvice,
		Purpose:     "Обсудить архитектуру сервиса",
		ProposedDates: []dto.ProposedDateDTO{
			{Date: time.Now().Add(72 * time.Hour), Time: "14:00"},
		},
	}
}

func TestMeetingService_Create(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)
	ctx := context.Background()

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)

	meeting, err := env.service.Create(ctx, sender.ID, createRequestFixture(recipient.ID))
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusPending, meeting.Status)
	assert.Equal(t, models.MeetingFormatOnline, meeting.MeetingFormat, "формат по умолчанию online")
	assert.Equal(t, models.CompensationNone, meeting.Compensation.Type, "компенсация по умолчанию none")

	// счетчики обеих сторон выросли в той же транзакции
	s, err := env.userRepo.FindByID(sender.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Statistics.RequestsSent)

	r, err := env.userRepo.FindByID(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.Statistics.RequestsReceived)

	// письмо получателю уходит в фоне
	env.runner.Wait()
	assert.Contains(t, env.emails.sentTemplates(), email.TemplateMeetingRequest)
}

func TestMeetingService_Create_SelfRequest(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)

	user := makeUser(t, env.db)

	_, err := env.service.Create(context.Background(), user.ID, createRequestFixture(user.ID))
	assert.ErrorIs(t, err, apperrors.ErrSelfMeetingRequest)
}

func TestMeetingService_Create_NotAccepting(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)

	sender := makeUser(t, env.db)
	closed := makeUser(t, env.db, func(u *models.User) {
		prefs := models.DefaultMeetingPreferences()
		prefs.AcceptingRequests = false
		u.MeetingPreferences = jsonType(prefs)
	})
	inactive := makeUser(t, env.db, func(u *models.User) { u.IsActive = false })

	_, err := env.service.Create(context.Background(), sender.ID, createRequestFixture(closed.ID))
	assert.ErrorIs(t, err, apperrors.ErrNotAcceptingRequests)

	_, err = env.service.Create(context.Background(), sender.ID, createRequestFixture(inactive.ID))
	assert.ErrorIs(t, err, apperrors.ErrNotAcceptingRequests)
}

func TestMeetingService_Accept(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)
	ctx := context.Background()

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	meeting := makeMeeting(t, env.db, sender, recipient)

	resp, err := env.service.Respond(ctx, recipient.ID, meeting.ID, &dto.RespondMeetingRequest{
		Status:  models.MeetingStatusAccepted,
		Message: "Отлично, встретимся",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusAccepted, resp.Status)
	// без явной даты берется первая предложенная
	require.NotNil(t, resp.ScheduledDate)
	assert.Equal(t, "14:00", resp.ScheduledTime)

	// счетчики принятия растут у обеих сторон
	r, _ := env.userRepo.FindByID(recipient.ID)
	assert.Equal(t, int64(1), r.Statistics.RequestsAccepted)
	s, _ := env.userRepo.FindByID(sender.ID)
	assert.Equal(t, int64(1), s.Statistics.SentAccepted)

	// в фоне создается видеовстреча и уходит письмо
	env.runner.Wait()
	assert.Equal(t, 1, env.links.created)
	assert.Contains(t, env.emails.sentTemplates(), email.TemplateMeetingAccepted)

	stored, err := env.service.Get(ctx, sender.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://zoom.us/j/123456789", stored.MeetingLink)
	assert.NotEmpty(t, stored.MeetingPassword)
}

func TestMeetingService_Accept_LinkProviderFailure(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)
	env.links.fail = true
	ctx := context.Background()

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	meeting := makeMeeting(t, env.db, sender, recipient)

	_, err := env.service.Respond(ctx, recipient.ID, meeting.ID, &dto.RespondMeetingRequest{
		Status: models.MeetingStatusAccepted,
	})
	require.NoError(t, err, "падение провайдера не откатывает принятие")

	env.runner.Wait()

	stored, err := env.service.Get(ctx, sender.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusAccepted, stored.Status)
	assert.Empty(t, stored.MeetingLink, "встреча остается accepted без ссылки")
	// письмо все равно уходит
	assert.Contains(t, env.emails.sentTemplates(), email.TemplateMeetingAccepted)
}

func TestMeetingService_Reject(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	meeting := makeMeeting(t, env.db, sender, recipient)

	resp, err := env.service.Respond(context.Background(), recipient.ID, meeting.ID, &dto.RespondMeetingRequest{
		Status:          models.MeetingStatusRejected,
		RejectionReason: "Нет времени на этой неделе",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusRejected, resp.Status)
	assert.Equal(t, "Нет времени на этой неделе", resp.RejectionReason)

	r, _ := env.userRepo.FindByID(recipient.ID)
	assert.Equal(t, int64(1), r.Statistics.RequestsRejected)
	s, _ := env.userRepo.FindByID(sender.ID)
	assert.Equal(t, int64(1), s.Statistics.SentRejected)

	env.runner.Wait()
	assert.Contains(t, env.emails.sentTemplates(), email.TemplateMeetingRejected)
	assert.Equal(t, 0, env.links.created, "для отклоненной встречи ссылка не создается")
}

func TestMeetingService_Reject_RequiresReason(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	meeting := makeMeeting(t, env.db, sender, recipient)

	_, err := env.service.Respond(context.Background(), recipient.ID, meeting.ID, &dto.RespondMeetingRequest{
		Status: models.MeetingStatusRejected,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)

	// запрос остался pending
	stored, err := env.service.Get(context.Background(), sender.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusPending, stored.Status)
}

func TestMeetingService_Modify(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	meeting := makeMeeting(t, env.db, sender, recipient)

	newDate := time.Now().Add(96 * time.Hour)
	resp, err := env.service.Respond(context.Background(), recipient.ID, meeting.ID, &dto.RespondMeetingRequest{
		Status:  models.MeetingStatusModified,
		Message: "Давайте позже",
		Modifications: &models.Modifications{
			ProposedDates: []models.ProposedDate{{Date: newDate, Time: "18:00"}},
			Duration:      45,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusModified, resp.Status)
	require.NotNil(t, resp.Response)
	require.NotNil(t, resp.Response.Modifications)
	assert.Equal(t, 45, resp.Response.Modifications.Duration)

	// из modified можно снова принять
	accepted, err := env.service.Respond(context.Background(), recipient.ID, meeting.ID, &dto.RespondMeetingRequest{
		Status: models.MeetingStatusAccepted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusAccepted, accepted.Status)

	env.runner.Wait()
}

func TestMeetingService_Respond_OnlyRecipient(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	stranger := makeUser(t, env.db)
	meeting := makeMeeting(t, env.db, sender, recipient)

	// отправитель не может принять собственный запрос
	_, err := env.service.Respond(context.Background(), sender.ID, meeting.ID, &dto.RespondMeetingRequest{
		Status: models.MeetingStatusAccepted,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotMeetingRecipient)

	_, err = env.service.Respond(context.Background(), stranger.ID, meeting.ID, &dto.RespondMeetingRequest{
		Status: models.MeetingStatusRejected,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotMeetingRecipient)
}

func TestMeetingService_InvalidTransitions(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)
	ctx := context.Background()

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)

	tests := []struct {
		name string
		from models.MeetingStatus
		call func(meetingID string) error
	}{
		{
			"нельзя завершить pending",
			models.MeetingStatusPending,
			func(id string) error {
				_, err := env.service.Complete(ctx, sender.ID, id)
				return err
			},
		},
		{
			"нельзя принять отклоненную",
			models.MeetingStatusRejected,
			func(id string) error {
				_, err := env.service.Respond(ctx, recipient.ID, id, &dto.RespondMeetingRequest{Status: models.MeetingStatusAccepted})
				return err
			},
		},
		{
			"нельзя отменить завершенную",
			models.MeetingStatusCompleted,
			func(id string) error {
				_, err := env.service.Cancel(ctx, sender.ID, id, "передумал")
				return err
			},
		},
		{
			"нет второго контрпредложения из modified",
			models.MeetingStatusModified,
			func(id string) error {
				_, err := env.service.Respond(ctx, recipient.ID, id, &dto.RespondMeetingRequest{
					Status:        models.MeetingStatusModified,
					Modifications: &models.Modifications{Duration: 15},
				})
				return err
			},
		},
		{
			"нельзя отклонить отмененную",
			models.MeetingStatusCancelled,
			func(id string) error {
				_, err := env.service.Respond(ctx, recipient.ID, id, &dto.RespondMeetingRequest{Status: models.MeetingStatusRejected})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := makeMeeting(t, env.db, sender, recipient, func(mr *models.MeetingRequest) {
				mr.Status = tt.from
			})
			err := tt.call(m.ID)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, apperrors.As(err, &appErr))
			assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
		})
	}
}

func TestMeetingService_CancelByEitherParticipant(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)
	ctx := context.Background()

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)

	m1 := makeMeeting(t, env.db, sender, recipient)
	resp, err := env.service.Cancel(ctx, sender.ID, m1.ID, "не смогу")
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusCancelled, resp.Status)
	// причина оседает в заметках отменяющей стороны
	assert.Equal(t, "не смогу", resp.SenderNotes)
	assert.Empty(t, resp.RecipientNotes)

	m2 := makeMeeting(t, env.db, sender, recipient, func(m *models.MeetingRequest) {
		m.Status = models.MeetingStatusAccepted
	})
	resp, err = env.service.Cancel(ctx, recipient.ID, m2.ID, "другие планы")
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusCancelled, resp.Status)
	assert.Equal(t, "другие планы", resp.RecipientNotes)

	m3 := makeMeeting(t, env.db, sender, recipient)
	stranger := makeUser(t, env.db)
	_, err = env.service.Cancel(ctx, stranger.ID, m3.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrNotMeetingParticipant)
}

func TestMeetingService_Complete(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	meeting := makeMeeting(t, env.db, sender, recipient, func(m *models.MeetingRequest) {
		m.Status = models.MeetingStatusAccepted
	})

	resp, err := env.service.Complete(context.Background(), recipient.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusCompleted, resp.Status)

	s, _ := env.userRepo.FindByID(sender.ID)
	r, _ := env.userRepo.FindByID(recipient.ID)
	assert.Equal(t, int64(1), s.Statistics.TotalMeetingsCompleted)
	assert.Equal(t, int64(1), r.Statistics.TotalMeetingsCompleted)

	// повторное завершение отклоняется и не накручивает счетчики
	_, err = env.service.Complete(context.Background(), recipient.ID, meeting.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)

	s, _ = env.userRepo.FindByID(sender.ID)
	r, _ = env.userRepo.FindByID(recipient.ID)
	assert.Equal(t, int64(1), s.Statistics.TotalMeetingsCompleted)
	assert.Equal(t, int64(1), r.Statistics.TotalMeetingsCompleted)
}

func TestMeetingService_UpdateNotes(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)
	ctx := context.Background()

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	meeting := makeMeeting(t, env.db, sender, recipient)

	resp, err := env.service.UpdateNotes(ctx, sender.ID, meeting.ID, "мои вопросы")
	require.NoError(t, err)
	assert.Equal(t, "мои вопросы", resp.SenderNotes)
	assert.Empty(t, resp.RecipientNotes)

	resp, err = env.service.UpdateNotes(ctx, recipient.ID, meeting.ID, "подготовить материалы")
	require.NoError(t, err)
	assert.Equal(t, "подготовить материалы", resp.RecipientNotes)
	assert.Equal(t, "мои вопросы", resp.SenderNotes, "заметки сторон не перетирают друг друга")
}

func TestMeetingService_CheckAvailability(t *testing.T) {
	t.Parallel()
	env := newMeetingTestEnv(t)
	ctx := context.Background()

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db, func(u *models.User) {
		limits := models.DefaultMeetingLimits()
		limits.MaxMeetingsPerWeek = 2
		u.MeetingLimits = jsonType(limits)
	})

	avail, err := env.service.CheckAvailability(ctx, recipient.ID)
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, int64(0), avail.WeeklyCount)

	// забиваем лимит принятыми встречами
	soon := time.Now().Add(24 * time.Hour)
	for i := 0; i < 2; i++ {
		makeMeeting(t, env.db, sender, recipient, func(m *models.MeetingRequest) {
			m.Status = models.MeetingStatusAccepted
			m.ScheduledDate = &soon
			m.Duration = 60
		})
	}

	// не в счет: прошедшая встреча и встреча, где он сам отправитель
	past := time.Now().Add(-24 * time.Hour)
	makeMeeting(t, env.db, sender, recipient, func(m *models.MeetingRequest) {
		m.Status = models.MeetingStatusAccepted
		m.ScheduledDate = &past
		m.Duration = 60
	})
	makeMeeting(t, env.db, recipient, sender, func(m *models.MeetingRequest) {
		m.Status = models.MeetingStatusAccepted
		m.ScheduledDate = &soon
		m.Duration = 60
	})

	avail, err = env.service.CheckAvailability(ctx, recipient.ID)
	require.NoError(t, err)
	assert.False(t, avail.Available, "лимит встреч в неделю исчерпан")
	assert.Equal(t, int64(2), avail.WeeklyCount)
	assert.True(t, avail.AcceptingNow, "сам флаг приема запросов не менялся")
}
