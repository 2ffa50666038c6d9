package dto

import (
	"time"

	"meetlink_backend/internal/models"
)

// UserResponse - полная проекция пользователя для самого владельца
// аккаунта и админки
type UserResponse struct {
	ID                 string                    `json:"id"`
	Email              string                    `json:"email"`
	Role               models.UserRole           `json:"role"`
	FirstName          string                    `json:"firstName"`
	LastName           string                    `json:"lastName"`
	ProfileImage       string                    `json:"profileImage,omitempty"`
	Bio                string                    `json:"bio,omitempty"`
	Description        string                    `json:"description,omitempty"`
	Company            models.Company            `json:"company"`
	Interests          []string                  `json:"interests"`
	SocialLinks        models.SocialLinks        `json:"socialLinks"`
	MeetingPreferences models.MeetingPreferences `json:"meetingPreferences"`
	MeetingLimits      models.MeetingLimits      `json:"meetingLimits"`
	Pricing            models.Pricing            `json:"pricing"`
	Statistics         models.UserStatistics     `json:"statistics"`
	AcceptanceRate     float64                   `json:"acceptanceRate"`
	SentAcceptanceRate float64                   `json:"sentAcceptanceRate"`
	PublicMeetingLink  string                    `json:"publicMeetingLink"`
	IsActive           bool                      `json:"isActive"`
	IsEmailVerified    bool                      `json:"isEmailVerified"`
	LastLogin          *time.Time                `json:"lastLogin,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// PublicProfileResponse - публичная карточка для страницы бронирования
// и поиска; без email и служебных полей
type PublicProfileResponse struct {
	ID                 string                    `json:"id"`
	FirstName          string                    `json:"firstName"`
	LastName           string                    `json:"lastName"`
	ProfileImage       string                    `json:"profileImage,omitempty"`
	Bio                string                    `json:"bio,omitempty"`
	Description        string                    `json:"description,omitempty"`
	Company            models.Company            `json:"company"`
	Interests          []string                  `json:"interests"`
	SocialLinks        models.SocialLinks        `json:"socialLinks"`
	MeetingPreferences models.MeetingPreferences `json:"meetingPreferences"`
	Pricing            models.Pricing            `json:"pricing"`
	PublicMeetingLink  string                    `json:"publicMeetingLink"`
	AcceptanceRate     float64                   `json:"acceptanceRate"`
	MeetingsCompleted  int64                     `json:"totalMeetingsCompleted"`
	MemberSince        time.Time                 `json:"memberSince"`
}

// UpdateProfileRequest - частичное обновление профиля. Разрешен только
// этот набор полей, остальное игнорируется. Указатели отличают
// "не прислано" от "прислано пустым".
type UpdateProfileRequest struct {
	FirstName   *string             `json:"firstName,omitempty" binding:"omitempty,max=50"`
	LastName    *string             `json:"lastName,omitempty" binding:"omitempty,max=50"`
	Bio         *string             `json:"bio,omitempty" binding:"omitempty,max=500"`
	Description *string             `json:"description,omitempty" binding:"omitempty,max=1000"`
	Company     *CompanyDTO         `json:"company,omitempty"`
	Interests   *[]string           `json:"interests,omitempty" binding:"omitempty,max=20,dive,max=50"`
	SocialLinks *models.SocialLinks `json:"socialLinks,omitempty"`
}

type CompanyDTO struct {
	Name     string `json:"name" binding:"max=100"`
	Position string `json:"position" binding:"max=100"`
}

// UpdatePreferencesRequest - обновление настроек встреч, лимитов и тарифов
type UpdatePreferencesRequest struct {
	MeetingPreferences *MeetingPreferencesDTO `json:"meetingPreferences,omitempty"`
	MeetingLimits      *models.MeetingLimits  `json:"meetingLimits,omitempty"`
	Pricing            *PricingDTO            `json:"pricing,omitempty"`
}

type MeetingPreferencesDTO struct {
	AcceptingRequests *bool                `json:"acceptingRequests,omitempty"`
	MeetingFormat     models.MeetingFormat `json:"meetingFormat,omitempty" validate:"omitempty,is-meeting-format"`
	MeetingTypes      []models.MeetingType `json:"meetingTypes,omitempty" validate:"omitempty,dive,is-meeting-type"`
	Location          *models.Location     `json:"location,omitempty"`
}

type PricingDTO struct {
	RequestFee  *models.RequestFee `json:"requestFee,omitempty"`
	MeetingRate models.MeetingRate `json:"meetingRate,omitempty" validate:"omitempty,is-meeting-rate"`
	RateAmount  *float64           `json:"rateAmount,omitempty" binding:"omitempty,gte=0"`
	Currency    string             `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// UploadImageResponse - результат загрузки аватара
type UploadImageResponse struct {
	ProfileImage string `json:"profileImage"`
}

func ToUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               u.Role,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		ProfileImage:       u.ProfileImage,
		Bio:                u.Bio,
		Description:        u.Description,
		Company:            u.Company(),
		Interests:          u.Interests,
		SocialLinks:        u.SocialLinks.Data(),
		MeetingPreferences: u.MeetingPreferences.Data(),
		MeetingLimits:      u.MeetingLimits.Data(),
		Pricing:            u.Pricing.Data(),
		Statistics:         u.Statistics,
		AcceptanceRate:     u.AcceptanceRate(),
		SentAcceptanceRate: u.SentAcceptanceRate(),
		PublicMeetingLink:  u.PublicMeetingLink,
		IsActive:           u.IsActive,
		IsEmailVerified:    u.IsEmailVerified,
		LastLogin:          u.LastLogin,
		CreatedAt:          u.CreatedAt,
	}
}

func ToPublicProfileResponse(u *models.User) *PublicProfileResponse {
	return &PublicProfileResponse{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		ProfileImage:       u.ProfileImage,
		Bio:                u.Bio,
		Description:        u.Description,
		Company:            u.Company(),
		Interests:          u.Interests,
		SocialLinks:        u.SocialLinks.Data(),
		MeetingPreferences: u.MeetingPreferences.Data(),
		Pricing:            u.Pricing.Data(),
		PublicMeetingLink:  u.PublicMeetingLink,
		AcceptanceRate:     u.AcceptanceRate(),
		MeetingsCompleted:  u.Statistics.TotalMeetingsCompleted,
		MemberSince:        u.CreatedAt,
	}
}
