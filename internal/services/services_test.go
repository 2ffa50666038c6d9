package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"meetlink_backend/internal/config"
	"meetlink_backend/internal/email"
	"meetlink_backend/internal/meetinglink"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/payments"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/tasks"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	// сервисам аутентификации нужен секрет для выпуска JWT
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60
	config.AppConfig.Upload.MaxSize = 5 * 1024 * 1024
	config.AppConfig.Upload.AllowedTypes = []string{"image/jpeg", "image/png"}
	config.AppConfig.Storage.BaseURL = "http://localhost:4000/uploads"
}

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

func jsonType[T any](v T) datatypes.JSONType[T] {
	return datatypes.NewJSONType(v)
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
			{Date: time.Now().Add(72 * time.Hour), Time: "14:00"},
		}),
		Status: models.MeetingStatusPending,
	}
	for _, fn := range mutate {
		fn(m)
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// --- Фейки внешних провайдеров ---

type sentEmail struct {
	To       []string
	Subject  string
	Template string
}

type fakeEmailProvider struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (f *fakeEmailProvider) Send(e *email.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{To: e.To, Subject: e.Subject})
	return nil
}

func (f *fakeEmailProvider) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, Template: templateName})
	return nil
}

func (f *fakeEmailProvider) Validate() error { return nil }
func (f *fakeEmailProvider) Close() error    { return nil }

func (f *fakeEmailProvider) sentTemplates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.sent))
	for _, s := range f.sent {
		names = append(names, s.Template)
	}
	return names
}

type fakeLinkProvider struct {
	mu      sync.Mutex
	fail    bool
	created int
}

func (f *fakeLinkProvider) Create(ctx context.Context, topic string, startTime time.Time, durationMinutes int) (*meetinglink.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("provider unavailable")
	}
	f.created++
	return &meetinglink.Meeting{
		ExternalID: fmt.Sprintf("ext-%d", f.created),
		JoinURL:    "https://zoom.us/j/123456789",
		Password:   "123456",
	}, nil
}

func (f *fakeLinkProvider) Delete(ctx context.Context, externalID string) error { return nil }

type fakePaymentProvider struct {
	mu      sync.Mutex
	intents map[string]*payments.Intent
	seq     int
}

func newFakePaymentProvider() *fakePaymentProvider {
	return &fakePaymentProvider{intents: make(map[string]*payments.Intent)}
}

func (f *fakePaymentProvider) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	intent := &payments.Intent{
		ID:           fmt.Sprintf("pi_%d", f.seq),
		ClientSecret: fmt.Sprintf("pi_%d_secret", f.seq),
		Status:       "requires_payment_method",
		Amount:       amountCents,
		Currency:     currency,
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakePaymentProvider) GetIntent(ctx context.Context, id string) (*payments.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent, ok := f.intents[id]
	if !ok {
		return nil, errors.New("no such intent")
	}
	return intent, nil
}

func (f *fakePaymentProvider) markSucceeded(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if intent, ok := f.intents[id]; ok {
		intent.Status = payments.StatusSucceeded
	}
}

// meetingTestEnv собирает MeetingService со всеми фейками
type meetingTestEnv struct {
	db       *gorm.DB
	service  MeetingService
	emails   *fakeEmailProvider
	links    *fakeLinkProvider
	runner   *tasks.Runner
	userRepo repositories.UserRepository
}

func newMeetingTestEnv(t *testing.T) *meetingTestEnv {
	t.Helper()

	db := setupTestDB(t)
	emails := &fakeEmailProvider{}
	links := &fakeLinkProvider{}
	runner := tasks.NewRunner(4, 5*time.Second)

	userRepo := repositories.NewUserRepository(db)
	meetingRepo := repositories.NewMeetingRepository(db)
	notifier := email.NewNotifier(emails, "http://localhost:3000")

	return &meetingTestEnv{
		db:       db,
		service:  NewMeetingService(db, meetingRepo, userRepo, notifier, links, runner),
		emails:   emails,
		links:    links,
		runner:   runner,
		userRepo: userRepo,
	}
}
