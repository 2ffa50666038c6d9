package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"meetlink_backend/internal/config"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/internal/storage"
	"meetlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProfileService(t *testing.T) (ProfileService, *gorm.DB, repositories.UserRepository) {
	t.Helper()

	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	store, err := storage.NewStorage(storage.Config{
		Type:     "local",
		BasePath: t.TempDir(),
		BaseURL:  config.AppConfig.Storage.BaseURL,
	})
	require.NoError(t, err)

	return NewProfileService(userRepo, store, config.AppConfig), db, userRepo
}

// makeFileHeader собирает multipart.FileHeader так же, как его отдает
// gin из формы
func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="image"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func strPtr(s string) *string { return &s }

func TestProfileService_GetProfile(t *testing.T) {
	t.Parallel()
	svc, db, _ := newProfileService(t)

	user := makeUser(t, db)

	resp, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, resp.Email)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestProfileService_GetPublicProfile(t *testing.T) {
	t.Parallel()
	svc, db, _ := newProfileService(t)
	ctx := context.Background()

	user := makeUser(t, db)
	hidden := makeUser(t, db, func(u *models.User) { u.IsActive = false })

	resp, err := svc.GetPublicProfile(ctx, user.PublicMeetingLink)
	require.NoError(t, err)
	assert.Equal(t, user.FirstName, resp.FirstName)

	// деактивированный профиль публично не виден
	_, err = svc.GetPublicProfile(ctx, hidden.PublicMeetingLink)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.GetPublicProfile(ctx, "no-such-link")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	t.Parallel()
	svc, db, userRepo := newProfileService(t)
	ctx := context.Background()

	user := makeUser(t, db, func(u *models.User) {
		u.Bio = "old bio"
	})

	interests := []string{"golang", "chess"}
	resp, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		FirstName: strPtr("Novoe"),
		Company:   &dto.CompanyDTO{Name: "Initech", Position: "CTO"},
		Interests: &interests,
	})
	require.NoError(t, err)
	assert.Equal(t, "Novoe", resp.FirstName)
	assert.Equal(t, "Initech", resp.Company.Name)
	assert.Equal(t, interests, resp.Interests)
	// не пришедшие поля не трогаются
	assert.Equal(t, "old bio", resp.Bio)
	assert.Equal(t, user.LastName, resp.LastName)

	stored, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novoe", stored.FirstName)
	assert.Equal(t, "Initech", stored.CompanyName)
}

func TestProfileService_UpdatePreferences(t *testing.T) {
	t.Parallel()
	svc, db, userRepo := newProfileService(t)
	ctx := context.Background()

	user := makeUser(t, db)

	accepting := false
	fee := models.RequestFee{Amount: 10, Currency: "EUR"}
	resp, err := svc.UpdatePreferences(ctx, user.ID, &dto.UpdatePreferencesRequest{
		MeetingPreferences: &dto.MeetingPreferencesDTO{
			AcceptingRequests: &accepting,
			MeetingFormat:     models.MeetingFormatOnline,
		},
		MeetingLimits: &models.MeetingLimits{
			MaxMeetingsPerWeek:  5,
			MaxMeetingsPerMonth: 20,
			MaxHoursPerWeek:     5,
			MaxHoursPerMonth:    20,
		},
		Pricing: &dto.PricingDTO{
			RequestFee: &fee,
			Currency:   "eur",
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.MeetingPreferences.AcceptingRequests)
	assert.Equal(t, models.MeetingFormatOnline, resp.MeetingPreferences.MeetingFormat)

	stored, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.MeetingLimits.Data().MaxMeetingsPerWeek)
	assert.Equal(t, "EUR", stored.Pricing.Data().Currency, "валюта нормализуется в верхний регистр")
}

func TestProfileService_UploadProfileImage(t *testing.T) {
	t.Parallel()
	svc, db, userRepo := newProfileService(t)
	ctx := context.Background()

	user := makeUser(t, db)

	file := makeFileHeader(t, "avatar.png", "image/png", []byte("fake png bytes"))
	resp, err := svc.UploadProfileImage(ctx, user.ID, file)
	require.NoError(t, err)
	assert.Contains(t, resp.ProfileImage, "avatars/"+user.ID)

	stored, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ProfileImage, stored.ProfileImage)
}

func TestProfileService_UploadProfileImage_ReplacesPrevious(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	store, err := storage.NewStorage(storage.Config{
		Type:     "local",
		BasePath: t.TempDir(),
		BaseURL:  config.AppConfig.Storage.BaseURL,
	})
	require.NoError(t, err)
	svc := NewProfileService(userRepo, store, config.AppConfig)
	ctx := context.Background()

	user := makeUser(t, db)

	first, err := svc.UploadProfileImage(ctx, user.ID, makeFileHeader(t, "one.png", "image/png", []byte("one")))
	require.NoError(t, err)
	firstPath := strings.TrimPrefix(first.ProfileImage, config.AppConfig.Storage.BaseURL+"/")
	exists, err := store.Exists(ctx, firstPath)
	require.NoError(t, err)
	require.True(t, exists)

	second, err := svc.UploadProfileImage(ctx, user.ID, makeFileHeader(t, "two.png", "image/png", []byte("two")))
	require.NoError(t, err)
	assert.NotEqual(t, first.ProfileImage, second.ProfileImage)

	// старый файл подчищен, новый на месте
	exists, err = store.Exists(ctx, firstPath)
	require.NoError(t, err)
	assert.False(t, exists)

	secondPath := strings.TrimPrefix(second.ProfileImage, config.AppConfig.Storage.BaseURL+"/")
	exists, err = store.Exists(ctx, secondPath)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProfileService_UploadProfileImage_Rejections(t *testing.T) {
	t.Parallel()
	svc, db, _ := newProfileService(t)
	ctx := context.Background()

	user := makeUser(t, db)

	pdf := makeFileHeader(t, "cv.pdf", "application/pdf", []byte("%PDF"))
	_, err := svc.UploadProfileImage(ctx, user.ID, pdf)
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)

	huge := makeFileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("x"), int(config.AppConfig.Upload.MaxSize)+1))
	_, err = svc.UploadProfileImage(ctx, user.ID, huge)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}
