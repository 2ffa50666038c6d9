package dto

import "meetlink_backend/internal/models"

// AdminUserQuery - фильтры списка пользователей в админке
type AdminUserQuery struct {
	Role     models.UserRole `form:"role" binding:"omitempty,oneof=user superadmin"`
	IsActive *bool           `form:"isActive"`
	Search   string          `form:"q" binding:"omitempty,max=100"`
}

// AdminMeetingQuery - фильтры списка встреч в админке
type AdminMeetingQuery struct {
	Status models.MeetingStatus `form:"status" validate:"omitempty,is-meeting-status"`
	UserID string               `form:"userId"`
}

// AdminUpdateUserRequest - правка пользователя суперадмином; тот же
// allow-list, что и у самого пользователя
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	IsEmailVerified *bool `json:"isEmailVerified,omitempty"`
}

// AdminUserDetailResponse - карточка пользователя в админке вместе с
// последними запросами с обеих сторон
type AdminUserDetailResponse struct {
	User             *UserResponse     `json:"user"`
	SentRequests     []MeetingResponse `json:"sentRequests"`
	ReceivedRequests []MeetingResponse `json:"receivedRequests"`
}

// PlatformStatsResponse - сводка по платформе
type PlatformStatsResponse struct {
	TotalUsers          int64                          `json:"totalUsers"`
	ActiveUsers         int64                          `json:"activeUsers"`
	InactiveUsers       int64                          `json:"inactiveUsers"`
	NewUsersThisWeek    int64                          `json:"newUsersThisWeek"`
	TotalMeetings       int64                          `json:"totalMeetings"`
	MeetingsByStatus    map[models.MeetingStatus]int64 `json:"meetingsByStatus"`
	NewMeetingsThisWeek int64                          `json:"newMeetingsThisWeek"`
	TotalRevenue        float64                        `json:"totalRevenue"`
}
