package repositories

import (
	"fmt"
	"testing"

	"meetlink_backend/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB поднимает чистую sqlite в памяти на каждый тест
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// in-memory база живет в рамках одного соединения
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.MeetingRequest{},
	))

	return db
}

func makeUser(t *testing.T, db *gorm.DB, mutate ...func(*models.User)) *models.User {
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
	for _, fn := range mutate {
		fn(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func makeMeeting(t *testing.T, db *gorm.DB, sender, recipient *models.User, mutate ...func(*models.MeetingRequest)) *models.MeetingRequest {
	t.Helper()

	m := &models.MeetingRequest{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Duration:    30,
		MeetingType: models.MeetingTypeExpertAdvice,
		Purpose:     gofakeit.Sentence(6),
		ProposedDates: datatypes.NewJSONSlice([]models.ProposedDate{
			{Date: gofakeit.FutureDate(), Time: "14:00"},
		}),
		Status: models.MeetingStatusPending,
	}
	for _, fn := range mutate {
		fn(m)
	}
	require.NoError(t, db.Create(m).Error)
	return m
}
