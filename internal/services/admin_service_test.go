package services

import (
	"context"
	"testing"

	"meetlink_backend/internal/auth"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type adminTestEnv struct {
	db       *gorm.DB
	service  AdminService
	userRepo repositories.UserRepository
}

func newAdminTestEnv(t *testing.T) *adminTestEnv {
	t.Helper()

	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	meetingRepo := repositories.NewMeetingRepository(db)

	return &adminTestEnv{
		db:       db,
		service:  NewAdminService(userRepo, meetingRepo),
		userRepo: userRepo,
	}
}

func makeSuperAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return makeUser(t, db, func(u *models.User) {
		u.Role = models.UserRoleSuperAdmin
	})
}

func adminCaller(u *models.User) auth.Caller {
	return auth.Caller{ID: u.ID, Role: string(u.Role)}
}

func TestAdminService_ListUsers(t *testing.T) {
	t.Parallel()
	env := newAdminTestEnv(t)
	ctx := context.Background()

	makeUser(t, env.db, func(u *models.User) { u.FirstName = "Pavel" })
	makeUser(t, env.db, func(u *models.User) { u.IsActive = false })
	makeSuperAdmin(t, env.db)

	users, total, err := env.service.ListUsers(ctx, &dto.AdminUserQuery{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 3)

	// фильтр по роли
	_, total, err = env.service.ListUsers(ctx, &dto.AdminUserQuery{Role: models.UserRoleSuperAdmin}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// фильтр по активности
	inactive := false
	_, total, err = env.service.ListUsers(ctx, &dto.AdminUserQuery{IsActive: &inactive}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// поиск по имени, регистр не важен
	_, total, err = env.service.ListUsers(ctx, &dto.AdminUserQuery{Search: "pavel"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = env.service.ListUsers(ctx, &dto.AdminUserQuery{Search: "PAVEL"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAdminService_GetUser(t *testing.T) {
	t.Parallel()
	env := newAdminTestEnv(t)
	ctx := context.Background()

	user := makeUser(t, env.db)
	other := makeUser(t, env.db)
	makeMeeting(t, env.db, user, other)
	makeMeeting(t, env.db, other, user)
	makeMeeting(t, env.db, other, user, func(m *models.MeetingRequest) {
		m.Status = models.MeetingStatusAccepted
	})

	detail, err := env.service.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, detail.User.ID)
	require.Len(t, detail.SentRequests, 1)
	assert.Equal(t, user.ID, detail.SentRequests[0].SenderID)
	require.Len(t, detail.ReceivedRequests, 2)
	for _, m := range detail.ReceivedRequests {
		assert.Equal(t, user.ID, m.RecipientID)
	}

	_, err = env.service.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAdminService_UpdateUser(t *testing.T) {
	t.Parallel()
	env := newAdminTestEnv(t)
	ctx := context.Background()

	admin := makeSuperAdmin(t, env.db)
	target := makeUser(t, env.db)

	verified := true
	resp, err := env.service.UpdateUser(ctx, adminCaller(admin), target.ID, &dto.AdminUpdateUserRequest{
		UpdateProfileRequest: dto.UpdateProfileRequest{FirstName: strPtr("Renamed")},
		IsEmailVerified:      &verified,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.FirstName)
	assert.True(t, resp.IsEmailVerified)

	_, err = env.service.UpdateUser(ctx, adminCaller(admin), "missing", &dto.AdminUpdateUserRequest{})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAdminService_SuperAdminProtections(t *testing.T) {
	t.Parallel()
	env := newAdminTestEnv(t)
	ctx := context.Background()

	admin := makeSuperAdmin(t, env.db)
	other := makeSuperAdmin(t, env.db)

	// чужого суперадмина нельзя править, удалять или деактивировать
	_, err := env.service.UpdateUser(ctx, adminCaller(admin), other.ID, &dto.AdminUpdateUserRequest{
		UpdateProfileRequest: dto.UpdateProfileRequest{FirstName: strPtr("Hacked")},
	})
	assert.ErrorIs(t, err, apperrors.ErrSuperAdminProtected)

	err = env.service.DeleteUser(ctx, adminCaller(admin), other.ID)
	assert.ErrorIs(t, err, apperrors.ErrSuperAdminProtected)

	_, err = env.service.SetUserActive(ctx, adminCaller(admin), other.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrSuperAdminProtected)

	// включить обратно можно любого
	_, err = env.service.SetUserActive(ctx, adminCaller(admin), other.ID, true)
	require.NoError(t, err)

	// себя править можно, удалить - нет
	_, err = env.service.UpdateUser(ctx, adminCaller(admin), admin.ID, &dto.AdminUpdateUserRequest{
		UpdateProfileRequest: dto.UpdateProfileRequest{FirstName: strPtr("Self")},
	})
	require.NoError(t, err)

	err = env.service.DeleteUser(ctx, adminCaller(admin), admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrSuperAdminProtected)
}

func TestAdminService_SetActiveAndDelete(t *testing.T) {
	t.Parallel()
	env := newAdminTestEnv(t)
	ctx := context.Background()

	admin := makeSuperAdmin(t, env.db)
	target := makeUser(t, env.db)

	resp, err := env.service.SetUserActive(ctx, adminCaller(admin), target.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	stored, err := env.userRepo.FindByID(target.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	require.NoError(t, env.service.DeleteUser(ctx, adminCaller(admin), target.ID))

	_, err = env.userRepo.FindByID(target.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestAdminService_ResetUserStatistics(t *testing.T) {
	t.Parallel()
	env := newAdminTestEnv(t)
	ctx := context.Background()

	admin := makeSuperAdmin(t, env.db)
	target := makeUser(t, env.db, func(u *models.User) {
		u.Statistics = models.UserStatistics{RequestsSent: 7, RequestsAccepted: 3, TotalMeetingsCompleted: 2}
	})

	require.NoError(t, env.service.ResetUserStatistics(ctx, adminCaller(admin), target.ID))

	stored, err := env.userRepo.FindByID(target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatistics{}, stored.Statistics)
}

func TestAdminService_ListMeetingsAndStats(t *testing.T) {
	t.Parallel()
	env := newAdminTestEnv(t)
	ctx := context.Background()

	sender := makeUser(t, env.db)
	recipient := makeUser(t, env.db)
	makeUser(t, env.db, func(u *models.User) { u.IsActive = false })
	makeMeeting(t, env.db, sender, recipient)
	makeMeeting(t, env.db, sender, recipient, func(m *models.MeetingRequest) {
		m.Status = models.MeetingStatusAccepted
		m.Payment = models.PaymentInfo{RequestFeePaid: true, TotalPaid: 40}
	})

	meetings, total, err := env.service.ListMeetings(ctx, &dto.AdminMeetingQuery{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, meetings, 2)

	_, total, err = env.service.ListMeetings(ctx, &dto.AdminMeetingQuery{Status: models.MeetingStatusAccepted}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	stats, err := env.service.PlatformStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.InactiveUsers)
	assert.Equal(t, int64(3), stats.NewUsersThisWeek)
	assert.Equal(t, int64(2), stats.TotalMeetings)
	assert.Equal(t, int64(1), stats.MeetingsByStatus[models.MeetingStatusPending])
	assert.Equal(t, int64(1), stats.MeetingsByStatus[models.MeetingStatusAccepted])
	assert.Equal(t, 40.0, stats.TotalRevenue)
}
