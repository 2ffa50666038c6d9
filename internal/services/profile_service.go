package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"meetlink_backend/internal/cache"
	"meetlink_backend/internal/config"
	"meetlink_backend/internal/logger"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/internal/storage"
	"meetlink_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const profileCacheTTL = 5 * time.Minute

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	GetPublicProfile(ctx context.Context, publicLink string) (*dto.PublicProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdatePreferences(ctx context.Context, userID string, req *dto.UpdatePreferencesRequest) (*dto.UserResponse, error)
	UploadProfileImage(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.UploadImageResponse, error)
}

type ProfileServiceImpl struct {
	userRepo repositories.UserRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewProfileService(userRepo repositories.UserRepository, store storage.Storage, cfg *config.Config) ProfileService {
	return &ProfileServiceImpl{
		userRepo: userRepo,
		storage:  store,
		cfg:      cfg,
	}
}

// GetProfile - профиль владельца аккаунта, читается через кеш
func (s *ProfileServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	err := cache.CacheAside(ctx, profileCacheKey(userID), &resp, profileCacheTTL, func() error {
		user, err := s.userRepo.FindByID(userID)
		if err != nil {
			return err
		}
		resp = *dto.ToUserResponse(user)
		return nil
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return &resp, nil
}

// GetPublicProfile - публичная карточка по слагу страницы бронирования
func (s *ProfileServiceImpl) GetPublicProfile(ctx context.Context, publicLink string) (*dto.PublicProfileResponse, error) {
	var resp dto.PublicProfileResponse
	err := cache.CacheAside(ctx, publicProfileCacheKey(publicLink), &resp, profileCacheTTL, func() error {
		user, err := s.userRepo.FindByPublicLink(publicLink)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return repositories.ErrUserNotFound
		}
		resp = *dto.ToPublicProfileResponse(user)
		return nil
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return &resp, nil
}

// UpdateProfile - частичное обновление профиля. Меняются только поля
// из allow-list, пришедшие в запросе.
func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	applyProfileUpdate(user, req)

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.invalidateProfileCache(ctx, user)
	return dto.ToUserResponse(user), nil
}

// UpdatePreferences - настройки встреч, лимиты и тарифы
func (s *ProfileServiceImpl) UpdatePreferences(ctx context.Context, userID string, req *dto.UpdatePreferencesRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.MeetingPreferences != nil {
		prefs := user.MeetingPreferences.Data()
		if req.MeetingPreferences.AcceptingRequests != nil {
			prefs.AcceptingRequests = *req.MeetingPreferences.AcceptingRequests
		}
		if req.MeetingPreferences.MeetingFormat != "" {
			prefs.MeetingFormat = req.MeetingPreferences.MeetingFormat
		}
		if req.MeetingPreferences.MeetingTypes != nil {
			prefs.MeetingTypes = req.MeetingPreferences.MeetingTypes
		}
		if req.MeetingPreferences.Location != nil {
			prefs.Location = *req.MeetingPreferences.Location
		}
		user.MeetingPreferences = datatypes.NewJSONType(prefs)
	}

	if req.MeetingLimits != nil {
		user.MeetingLimits = datatypes.NewJSONType(*req.MeetingLimits)
	}

	if req.Pricing != nil {
		pricing := user.Pricing.Data()
		if req.Pricing.RequestFee != nil {
			pricing.RequestFee = *req.Pricing.RequestFee
		}
		if req.Pricing.MeetingRate != "" {
			pricing.MeetingRate = req.Pricing.MeetingRate
		}
		if req.Pricing.RateAmount != nil {
			pricing.RateAmount = *req.Pricing.RateAmount
		}
		if req.Pricing.Currency != "" {
			pricing.Currency = strings.ToUpper(req.Pricing.Currency)
		}
		user.Pricing = datatypes.NewJSONType(pricing)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.invalidateProfileCache(ctx, user)
	return dto.ToUserResponse(user), nil
}

// UploadProfileImage - загрузка аватара, только изображения до
// сконфигурированного лимита
func (s *ProfileServiceImpl) UploadProfileImage(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.UploadImageResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if file.Size > s.cfg.Upload.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !s.isAllowedType(contentType) {
		return nil, apperrors.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	path := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), filepath.Ext(file.Filename))
	if err := s.storage.Save(ctx, path, src, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	imageURL, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.deleteOldImage(ctx, user.ProfileImage)

	user.ProfileImage = imageURL
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.invalidateProfileCache(ctx, user)
	return &dto.UploadImageResponse{ProfileImage: imageURL}, nil
}

// deleteOldImage убирает предыдущий аватар из хранилища. Ошибки не
// прерывают загрузку, пользователь ждет новый файл, а не уборку старого.
func (s *ProfileServiceImpl) deleteOldImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}
	path := imageURL
	switch {
	case s.cfg.Storage.BaseURL != "" && strings.HasPrefix(path, s.cfg.Storage.BaseURL+"/"):
		path = strings.TrimPrefix(path, s.cfg.Storage.BaseURL+"/")
	case strings.HasPrefix(path, "/files/"):
		path = strings.TrimPrefix(path, "/files/")
	default:
		// внешний URL, нам его не чистить
		return
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		logger.Warn("Failed to delete previous profile image", "path", path, "error", err)
	}
}

func (s *ProfileServiceImpl) isAllowedType(contentType string) bool {
	for _, allowed := range s.cfg.Upload.AllowedTypes {
		if allowed == contentType {
			return true
		}
		// "image/*" разрешает любой image-тип
		if strings.HasSuffix(allowed, "/*") && strings.HasPrefix(contentType, strings.TrimSuffix(allowed, "*")) {
			return true
		}
	}
	return false
}

func (s *ProfileServiceImpl) invalidateProfileCache(ctx context.Context, user *models.User) {
	cache.Delete(ctx, profileCacheKey(user.ID), publicProfileCacheKey(user.PublicMeetingLink))
}

func applyProfileUpdate(user *models.User, req *dto.UpdateProfileRequest) {
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Description != nil {
		user.Description = *req.Description
	}
	if req.Company != nil {
		user.CompanyName = req.Company.Name
		user.CompanyPosition = req.Company.Position
	}
	if req.Interests != nil {
		user.Interests = datatypes.NewJSONSlice(*req.Interests)
	}
	if req.SocialLinks != nil {
		user.SocialLinks = datatypes.NewJSONType(*req.SocialLinks)
	}
}

func profileCacheKey(userID string) string {
	return "profile:" + userID
}

func publicProfileCacheKey(link string) string {
	return "public_profile:" + link
}
