package services

import (
	"context"
	"testing"
	"time"

	"meetlink_backend/internal/cache"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/pkg/apperrors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newSearchService(t *testing.T) (SearchService, *gorm.DB, repositories.UserRepository) {
	t.Helper()
	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	meetingRepo := repositories.NewMeetingRepository(db)
	return NewSearchService(userRepo, meetingRepo), db, userRepo
}

// withMiniredis подменяет глобальный клиент кеша, поэтому такие тесты
// не параллелятся
func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func TestSearchService_Search(t *testing.T) {
	t.Parallel()
	svc, db, _ := newSearchService(t)
	ctx := context.Background()

	makeUser(t, db, func(u *models.User) {
		u.FirstName = "Alice"
		u.LastName = "Ivanova"
		u.Interests = datatypes.NewJSONSlice([]string{"golang", "startups"})
	})
	makeUser(t, db, func(u *models.User) {
		u.FirstName = "Boris"
		u.CompanyName = "Globex"
	})
	makeUser(t, db, func(u *models.User) {
		u.FirstName = "Hidden"
		u.IsActive = false
	})

	users, total, err := svc.Search(ctx, &dto.SearchQuery{Query: "alice"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].FirstName)

	users, total, err = svc.Search(ctx, &dto.SearchQuery{Interest: "startups"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	users, total, err = svc.Search(ctx, &dto.SearchQuery{Company: "globex"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Boris", users[0].FirstName)

	// деактивированные не ищутся
	_, total, err = svc.Search(ctx, &dto.SearchQuery{Query: "hidden"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSearchService_Search_Cached(t *testing.T) {
	mr := withMiniredis(t)
	svc, db, _ := newSearchService(t)
	ctx := context.Background()

	makeUser(t, db, func(u *models.User) { u.FirstName = "Carol" })

	_, total, err := svc.Search(ctx, &dto.SearchQuery{Query: "carol"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// повторный запрос берется из кеша и не видит новых пользователей
	makeUser(t, db, func(u *models.User) { u.FirstName = "Carolina" })

	_, total, err = svc.Search(ctx, &dto.SearchQuery{Query: "carol"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// после истечения TTL кеш обновляется
	mr.FastForward(searchCacheTTL * 2)

	_, total, err = svc.Search(ctx, &dto.SearchQuery{Query: "carol"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSearchService_Facets(t *testing.T) {
	t.Parallel()
	svc, db, _ := newSearchService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		makeUser(t, db, func(u *models.User) {
			u.Interests = datatypes.NewJSONSlice([]string{"golang"})
			u.CompanyName = "Globex"
		})
	}
	makeUser(t, db, func(u *models.User) {
		u.Interests = datatypes.NewJSONSlice([]string{"design"})
	})

	facets, err := svc.Facets(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, facets.Interests)
	assert.Equal(t, "golang", facets.Interests[0].Value)
	assert.Equal(t, int64(3), facets.Interests[0].Count)
	require.NotEmpty(t, facets.Companies)
	assert.Equal(t, "Globex", facets.Companies[0].Value)
}

func TestSearchService_UserStats(t *testing.T) {
	t.Parallel()
	svc, db, _ := newSearchService(t)
	ctx := context.Background()

	user := makeUser(t, db, func(u *models.User) {
		u.Statistics = models.UserStatistics{
			RequestsSent:           2,
			RequestsReceived:       4,
			RequestsAccepted:       3,
			RequestsRejected:       1,
			SentAccepted:           1,
			TotalMeetingsCompleted: 2,
		}
	})
	other := makeUser(t, db)

	// одна будущая принятая встреча и одна прошедшая
	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)
	makeMeeting(t, db, other, user, func(m *models.MeetingRequest) {
		m.Status = models.MeetingStatusAccepted
		m.ScheduledDate = &future
	})
	makeMeeting(t, db, user, other, func(m *models.MeetingRequest) {
		m.Status = models.MeetingStatusAccepted
		m.ScheduledDate = &past
	})

	stats, err := svc.UserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.RequestsReceived)
	assert.Equal(t, 75.0, stats.AcceptanceRate)
	assert.Equal(t, 50.0, stats.SentAcceptanceRate)
	assert.Equal(t, int64(2), stats.TotalMeetingsCompleted)
	assert.Equal(t, int64(1), stats.UpcomingMeetings)

	_, err = svc.UserStats(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
