package services

import (
	"context"
	"time"

	"meetlink_backend/internal/auth"
	"meetlink_backend/internal/cache"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/pkg/apperrors"
)

type AdminService interface {
	ListUsers(ctx context.Context, query *dto.AdminUserQuery, page, pageSize int) ([]dto.UserResponse, int64, error)
	GetUser(ctx context.Context, userID string) (*dto.AdminUserDetailResponse, error)
	UpdateUser(ctx context.Context, caller auth.Caller, targetID string, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	SetUserActive(ctx context.Context, caller auth.Caller, targetID string, active bool) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, caller auth.Caller, targetID string) error
	ResetUserStatistics(ctx context.Context, caller auth.Caller, targetID string) error
	ListMeetings(ctx context.Context, query *dto.AdminMeetingQuery, page, pageSize int) ([]dto.MeetingResponse, int64, error)
	PlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error)
}

const (
	recentRequestsLimit = 10
	statsCacheTTL       = 1 * time.Minute
)

type AdminServiceImpl struct {
	userRepo    repositories.UserRepository
	meetingRepo repositories.MeetingRepository
}

func NewAdminService(userRepo repositories.UserRepository, meetingRepo repositories.MeetingRepository) AdminService {
	return &AdminServiceImpl{
		userRepo:    userRepo,
		meetingRepo: meetingRepo,
	}
}

func (s *AdminServiceImpl) ListUsers(ctx context.Context, query *dto.AdminUserQuery, page, pageSize int) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.FindWithFilter(repositories.UserFilter{
		Role:     query.Role,
		IsActive: query.IsActive,
		Search:   query.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *dto.ToUserResponse(&users[i]))
	}
	return result, total, nil
}

// GetUser - карточка пользователя с десятью последними запросами
// с каждой стороны
func (s *AdminServiceImpl) GetUser(ctx context.Context, userID string) (*dto.AdminUserDetailResponse, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	sent, _, err := s.meetingRepo.FindForUser(userID, repositories.MeetingFilter{
		Role: repositories.MeetingRoleSent, Page: 1, PageSize: recentRequestsLimit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	received, _, err := s.meetingRepo.FindForUser(userID, repositories.MeetingFilter{
		Role: repositories.MeetingRoleReceived, Page: 1, PageSize: recentRequestsLimit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AdminUserDetailResponse{
		User:             dto.ToUserResponse(user),
		SentRequests:     dto.ToMeetingResponses(sent),
		ReceivedRequests: dto.ToMeetingResponses(received),
	}, nil
}

// UpdateUser - правка профиля суперадмином, тот же allow-list полей,
// что и в самостоятельном обновлении
func (s *AdminServiceImpl) UpdateUser(ctx context.Context, caller auth.Caller, targetID string, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findUser(targetID)
	if err != nil {
		return nil, err
	}

	if !auth.CanAdministerUser(caller, auth.UserRefs{ID: user.ID, Role: string(user.Role)}, auth.ActionUserUpdate) {
		return nil, apperrors.ErrSuperAdminProtected
	}

	applyProfileUpdate(user, &req.UpdateProfileRequest)
	if req.IsEmailVerified != nil {
		user.IsEmailVerified = *req.IsEmailVerified
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.invalidateUserCache(ctx, user)
	return dto.ToUserResponse(user), nil
}

// SetUserActive - деактивация и обратное включение аккаунта
func (s *AdminServiceImpl) SetUserActive(ctx context.Context, caller auth.Caller, targetID string, active bool) (*dto.UserResponse, error) {
	user, err := s.findUser(targetID)
	if err != nil {
		return nil, err
	}

	action := auth.ActionUserDeactivate
	if active {
		action = auth.ActionUserActivate
	}
	if !auth.CanAdministerUser(caller, auth.UserRefs{ID: user.ID, Role: string(user.Role)}, action) {
		return nil, apperrors.ErrSuperAdminProtected
	}

	if err := s.userRepo.SetActive(targetID, active); err != nil {
		return nil, apperrors.InternalError(err)
	}

	user.IsActive = active
	s.invalidateUserCache(ctx, user)
	return dto.ToUserResponse(user), nil
}

// DeleteUser - удаление аккаунта вместе с refresh-токенами
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, caller auth.Caller, targetID string) error {
	user, err := s.findUser(targetID)
	if err != nil {
		return err
	}

	if !auth.CanAdministerUser(caller, auth.UserRefs{ID: user.ID, Role: string(user.Role)}, auth.ActionUserDelete) {
		return apperrors.ErrSuperAdminProtected
	}

	if err := s.userRepo.Delete(targetID); err != nil {
		return apperrors.InternalError(err)
	}

	s.invalidateUserCache(ctx, user)
	return nil
}

// ResetUserStatistics - единственный путь, которым счетчики могут
// уменьшаться
func (s *AdminServiceImpl) ResetUserStatistics(ctx context.Context, caller auth.Caller, targetID string) error {
	user, err := s.findUser(targetID)
	if err != nil {
		return err
	}

	if !auth.CanAdministerUser(caller, auth.UserRefs{ID: user.ID, Role: string(user.Role)}, auth.ActionUserUpdate) {
		return apperrors.ErrSuperAdminProtected
	}

	if err := s.userRepo.ResetStatistics(targetID); err != nil {
		return apperrors.InternalError(err)
	}

	s.invalidateUserCache(ctx, user)
	return nil
}

func (s *AdminServiceImpl) ListMeetings(ctx context.Context, query *dto.AdminMeetingQuery, page, pageSize int) ([]dto.MeetingResponse, int64, error) {
	meetings, total, err := s.meetingRepo.FindWithFilter(repositories.AdminMeetingFilter{
		Status:   query.Status,
		UserID:   query.UserID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return dto.ToMeetingResponses(meetings), total, nil
}

// PlatformStats - сводка по пользователям, встречам и выручке.
// Коротко кешируется: точность до минуты для дашборда достаточна.
func (s *AdminServiceImpl) PlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	var resp dto.PlatformStatsResponse
	err := cache.CacheAside(ctx, "admin:platform_stats", &resp, statsCacheTTL, func() error {
		weekAgo := time.Now().AddDate(0, 0, -7)

		totalUsers, err := s.userRepo.CountAll()
		if err != nil {
			return err
		}
		activeUsers, err := s.userRepo.CountActive()
		if err != nil {
			return err
		}
		newUsers, err := s.userRepo.CountNewSince(weekAgo)
		if err != nil {
			return err
		}
		totalMeetings, err := s.meetingRepo.CountAll()
		if err != nil {
			return err
		}
		byStatus, err := s.meetingRepo.CountByStatus()
		if err != nil {
			return err
		}
		newMeetings, err := s.meetingRepo.CountNewSince(weekAgo)
		if err != nil {
			return err
		}
		revenue, err := s.meetingRepo.TotalRevenue()
		if err != nil {
			return err
		}

		resp = dto.PlatformStatsResponse{
			TotalUsers:          totalUsers,
			ActiveUsers:         activeUsers,
			InactiveUsers:       totalUsers - activeUsers,
			NewUsersThisWeek:    newUsers,
			TotalMeetings:       totalMeetings,
			MeetingsByStatus:    byStatus,
			NewMeetingsThisWeek: newMeetings,
			TotalRevenue:        revenue,
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &resp, nil
}

func (s *AdminServiceImpl) findUser(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *AdminServiceImpl) invalidateUserCache(ctx context.Context, user *models.User) {
	cache.Delete(ctx, profileCacheKey(user.ID), publicProfileCacheKey(user.PublicMeetingLink))
}
