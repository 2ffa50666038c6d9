package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"meetlink_backend/internal/auth"
	"meetlink_backend/internal/email"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/internal/tasks"
	"meetlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

const (
	refreshTokenTTL = 30 * 24 * time.Hour
	resetTokenTTL   = 1 * time.Hour
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(userID string) (*dto.UserResponse, error)
	RefreshToken(refreshToken string) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	UpdatePassword(userID, currentPassword, newPassword string) error
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
	VerifyEmail(token string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	notifier         *email.Notifier
	runner           *tasks.Runner
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	notifier *email.Notifier,
	runner *tasks.Runner,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		notifier:         notifier,
		runner:           runner,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	publicLink, err := s.uniquePublicLink(req.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:              req.Email,
		PasswordHash:       hashedPassword,
		Role:               models.UserRoleUser,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		MeetingPreferences: datatypes.NewJSONType(models.DefaultMeetingPreferences()),
		MeetingLimits:      datatypes.NewJSONType(models.DefaultMeetingLimits()),
		Pricing:            datatypes.NewJSONType(models.DefaultPricing()),
		PublicMeetingLink:  publicLink,
		IsActive:           true,
		VerificationToken:  generateRandomToken(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	verificationToken := user.VerificationToken
	s.runner.Submit("send-verification-email", func(ctx context.Context) error {
		return s.notifier.SendVerification(user, verificationToken)
	})

	return s.buildAuthResponse(user)
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildAuthResponse(user)
}

// Me - текущий пользователь по ID из токена
func (s *AuthServiceImpl) Me(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.ToUserResponse(user), nil
}

// RefreshToken - обновление access token с ротацией refresh token
func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.AuthResponse, error) {
	token, err := s.refreshTokenRepo.Find(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		s.refreshTokenRepo.Delete(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	if err := s.refreshTokenRepo.Delete(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildAuthResponse(user)
}

// Logout - выход (удаление refresh token)
func (s *AuthServiceImpl) Logout(refreshToken string) error {
	return s.refreshTokenRepo.Delete(refreshToken)
}

// UpdatePassword - смена пароля с проверкой текущего
func (s *AuthServiceImpl) UpdatePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	// Все старые сессии закрываются
	return s.refreshTokenRepo.DeleteForUser(userID)
}

// ForgotPassword - запрос сброса пароля. Существование email не
// раскрывается: при любом исходе ответ одинаковый.
func (s *AuthServiceImpl) ForgotPassword(emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		return nil
	}

	resetToken := generateRandomToken()
	resetTokenExp := time.Now().Add(resetTokenTTL)

	user.ResetToken = resetToken
	user.ResetTokenExp = &resetTokenExp

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	s.runner.Submit("send-password-reset-email", func(ctx context.Context) error {
		return s.notifier.SendPasswordReset(user, resetToken)
	})

	return nil
}

// ResetPassword - установка нового пароля по токену сброса
func (s *AuthServiceImpl) ResetPassword(token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	if user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return apperrors.ErrInvalidToken
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hashedPassword
	user.ResetToken = ""
	user.ResetTokenExp = nil

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	return s.refreshTokenRepo.DeleteForUser(user.ID)
}

// VerifyEmail - подтверждение email по токену
func (s *AuthServiceImpl) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	user.IsEmailVerified = true
	user.VerificationToken = ""

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := generateRandomToken()
	if err := s.refreshTokenRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         dto.ToUserResponse(user),
	}, nil
}

// uniquePublicLink генерирует слаг и перебирает случайный суффикс,
// пока не найдется свободный
func (s *AuthServiceImpl) uniquePublicLink(email string) (string, error) {
	for i := 0; i < 5; i++ {
		link := models.GeneratePublicMeetingLink(email)
		_, err := s.userRepo.FindByPublicLink(link)
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return link, nil
		}
		if err != nil {
			return "", err
		}
	}
	// Пять коллизий подряд на случайном суффиксе практически невозможны
	return models.GeneratePublicMeetingLink(email), nil
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
