package workers

import (
	"fmt"
	"testing"
	"time"

	"meetlink_backend/internal/models"
	"meetlink_backend/internal/repositories"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupWorker(t *testing.T) (*CleanupWorker, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// in-memory база живет в рамках одного соединения
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewRefreshTokenRepository(db)
	return NewCleanupWorker(userRepo, tokenRepo), db
}

func seedUser(t *testing.T, db *gorm.DB, mutate func(*models.User)) *models.User {
	t.Helper()
	email := fmt.Sprintf("%s-%s@example.com", gofakeit.Username(), gofakeit.LetterN(5))
	u := &models.User{
		Email:              email,
		PasswordHash:       "hash",
		Role:               models.UserRoleUser,
		FirstName:          gofakeit.FirstName(),
		LastName:           gofakeit.LastName(),
		MeetingPreferences: datatypes.NewJSONType(models.DefaultMeetingPreferences()),
		MeetingLimits:      datatypes.NewJSONType(models.DefaultMeetingLimits()),
		Pricing:            datatypes.NewJSONType(models.DefaultPricing()),
		PublicMeetingLink:  models.GeneratePublicMeetingLink(email),
		IsActive:           true,
	}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestCleanupWorker_RunOnce(t *testing.T) {
	t.Parallel()
	worker, db := setupWorker(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := seedUser(t, db, func(u *models.User) {
		u.ResetToken = "expired-reset"
		u.ResetTokenExp = &past
	})
	fresh := seedUser(t, db, func(u *models.User) {
		u.ResetToken = "fresh-reset"
		u.ResetTokenExp = &future
	})

	require.NoError(t, db.Create(&models.RefreshToken{
		UserID: expired.ID, Token: "stale", ExpiresAt: past,
	}).Error)
	require.NoError(t, db.Create(&models.RefreshToken{
		UserID: fresh.ID, Token: "alive", ExpiresAt: future,
	}).Error)

	worker.RunOnce()

	var tokens []models.RefreshToken
	require.NoError(t, db.Find(&tokens).Error)
	require.Len(t, tokens, 1)
	assert.Equal(t, "alive", tokens[0].Token)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", expired.ID).Error)
	assert.Empty(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExp)

	// свежая переменная: иначе первичный ключ из предыдущего First
	// попадает в условия следующего запроса
	var u2 models.User
	require.NoError(t, db.First(&u2, "id = ?", fresh.ID).Error)
	assert.Equal(t, "fresh-reset", u2.ResetToken)
}

func TestCleanupWorker_StartStop(t *testing.T) {
	t.Parallel()
	worker, _ := setupWorker(t)

	require.NoError(t, worker.Start())
	// Stop ждет завершения запущенных задач и не зависает
	worker.Stop()
}
