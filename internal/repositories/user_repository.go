package repositories

import (
	"errors"
	"strings"
	"time"

	"meetlink_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// Имена колонок счетчиков для IncrementStats
const (
	StatRequestsSent           = "stat_requests_sent"
	StatRequestsReceived       = "stat_requests_received"
	StatRequestsAccepted       = "stat_requests_accepted"
	StatRequestsRejected       = "stat_requests_rejected"
	StatSentAccepted           = "stat_sent_accepted"
	StatSentRejected           = "stat_sent_rejected"
	StatTotalMeetingsCompleted = "stat_total_meetings_completed"
)

type UserRepository interface {
	// User operations
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByPublicLink(link string) (*models.User, error)
	FindByResetToken(token string) (*models.User, error)
	FindByVerificationToken(token string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(userID string) error
	UpdateLastLogin(userID string) error
	SetActive(userID string, active bool) error

	// Statistics counters
	IncrementStats(userID string, columns ...string) error
	ResetStatistics(userID string) error

	// Search / discovery
	Search(criteria SearchFilter) ([]models.User, int64, error)
	TopInterests(limit int) ([]FacetCount, error)
	TopCompanies(limit int) ([]FacetCount, error)

	// Admin operations
	FindWithFilter(criteria UserFilter) ([]models.User, int64, error)
	CountAll() (int64, error)
	CountActive() (int64, error)
	CountNewSince(since time.Time) (int64, error)
	ClearExpiredResetTokens() (int64, error)

	// WithTx binds the repository to an open transaction
	WithTx(tx *gorm.DB) UserRepository
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

// SearchFilter - публичный поиск; всегда ограничен активными
// пользователями с ролью user
type SearchFilter struct {
	Query    string
	Interest string
	Company  string
	OnlyOpen bool
	Page     int
	PageSize int
}

type UserFilter struct {
	Role     models.UserRole
	IsActive *bool
	Search   string
	Page     int
	PageSize int
}

type FacetCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) WithTx(tx *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: tx}
}

// User operations

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByPublicLink(link string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "public_meeting_link = ?", link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByResetToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "reset_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByVerificationToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "verification_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	// Check if user already exists
	var existing models.User
	if err := r.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	result := r.db.Save(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(userID string) error {
	// Удаляем пользователя вместе с его refresh-токенами
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepositoryImpl) UpdateLastLogin(userID string) error {
	now := time.Now()
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("last_login", now).Error
}

func (r *UserRepositoryImpl) SetActive(userID string, active bool) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Statistics counters

// IncrementStats увеличивает каждый из переданных счетчиков на единицу.
// Вызывается внутри транзакции смены статуса встречи через WithTx.
func (r *UserRepositoryImpl) IncrementStats(userID string, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	updates := make(map[string]interface{}, len(columns))
	for _, col := range columns {
		updates[col] = gorm.Expr(col + " + 1")
	}
	result := r.db.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ResetStatistics(userID string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(map[string]interface{}{
		StatRequestsSent:           0,
		StatRequestsReceived:       0,
		StatRequestsAccepted:       0,
		StatRequestsRejected:       0,
		StatSentAccepted:           0,
		StatSentRejected:           0,
		StatTotalMeetingsCompleted: 0,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Search / discovery

func (r *UserRepositoryImpl) Search(criteria SearchFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{}).
		Where("role = ?", models.UserRoleUser).
		Where("is_active = ?", true)

	if criteria.Query != "" {
		// LOWER с обеих сторон: на постгресе голый LIKE чувствителен к регистру
		like := "%" + strings.ToLower(criteria.Query) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(bio) LIKE ?",
			like, like, like, like, like,
		)
	}
	if criteria.Interest != "" {
		query = query.Where(datatypes.JSONArrayQuery("interests").Contains(criteria.Interest))
	}
	if criteria.Company != "" {
		query = query.Where("LOWER(company_name) LIKE ?", "%"+strings.ToLower(criteria.Company)+"%")
	}
	if criteria.OnlyOpen {
		query = query.Where(datatypes.JSONQuery("meeting_preferences").Equals(true, "acceptingRequests"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.
		Order("stat_total_meetings_completed DESC").
		Order("created_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// TopInterests агрегирует интересы активных пользователей. Интересы
// лежат в JSON-массиве, поэтому разворачиваем их в приложении, а не в SQL.
func (r *UserRepositoryImpl) TopInterests(limit int) ([]FacetCount, error) {
	var rows []struct {
		Interests datatypes.JSONSlice[string]
	}
	err := r.db.Model(&models.User{}).
		Select("interests").
		Where("role = ? AND is_active = ?", models.UserRoleUser, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, row := range rows {
		for _, interest := range row.Interests {
			if interest != "" {
				counts[interest]++
			}
		}
	}
	return topCounts(counts, limit), nil
}

func (r *UserRepositoryImpl) TopCompanies(limit int) ([]FacetCount, error) {
	var facets []FacetCount
	err := r.db.Model(&models.User{}).
		Select("company_name AS value, COUNT(*) AS count").
		Where("role = ? AND is_active = ? AND company_name <> ''", models.UserRoleUser, true).
		Group("company_name").
		Order("count DESC").
		Limit(limit).
		Find(&facets).Error
	return facets, err
}

func topCounts(counts map[string]int64, limit int) []FacetCount {
	facets := make([]FacetCount, 0, len(counts))
	for value, count := range counts {
		facets = append(facets, FacetCount{Value: value, Count: count})
	}
	// Сортировка по убыванию, при равенстве по имени для стабильности
	for i := 0; i < len(facets); i++ {
		for j := i + 1; j < len(facets); j++ {
			if facets[j].Count > facets[i].Count ||
				(facets[j].Count == facets[i].Count && facets[j].Value < facets[i].Value) {
				facets[i], facets[j] = facets[j], facets[i]
			}
		}
	}
	if limit > 0 && len(facets) > limit {
		facets = facets[:limit]
	}
	return facets
}

// Admin operations

func (r *UserRepositoryImpl) FindWithFilter(criteria UserFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.IsActive != nil {
		query = query.Where("is_active = ?", *criteria.IsActive)
	}
	if criteria.Search != "" {
		like := "%" + strings.ToLower(criteria.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.
		Order("created_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Счетчики платформы считают только обычных пользователей, админские
// аккаунты в статистику не входят

func (r *UserRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", models.UserRoleUser).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.UserRoleUser, true).
		Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountNewSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("role = ? AND created_at >= ?", models.UserRoleUser, since).
		Count(&count).Error
	return count, err
}

// ClearExpiredResetTokens снимает протухшие токены сброса пароля,
// вызывается фоновым воркером
func (r *UserRepositoryImpl) ClearExpiredResetTokens() (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("reset_token <> '' AND reset_token_exp < ?", time.Now()).
		UpdateColumns(map[string]interface{}{
			"reset_token":     "",
			"reset_token_exp": nil,
		})
	return res.RowsAffected, res.Error
}
