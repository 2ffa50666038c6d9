package repositories

import (
	"errors"
	"time"

	"meetlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrMeetingNotFound = errors.New("meeting request not found")

// MeetingRole определяет, с какой стороны запроса смотрит пользователь
type MeetingRole string

const (
	MeetingRoleAll      MeetingRole = "all"
	MeetingRoleSent     MeetingRole = "sent"
	MeetingRoleReceived MeetingRole = "received"
)

type MeetingRepository interface {
	Create(meeting *models.MeetingRequest) error
	FindByID(id string) (*models.MeetingRequest, error)
	Update(meeting *models.MeetingRequest) error
	UpdateStatus(meetingID string, status models.MeetingStatus, updates map[string]interface{}) error

	FindForUser(userID string, criteria MeetingFilter) ([]models.MeetingRequest, int64, error)
	CountPendingReceived(userID string) (int64, error)
	CountUpcomingAccepted(userID string, now time.Time) (int64, error)
	AcceptedLoad(userID string, from, to time.Time) (count int64, minutes int64, err error)

	PaymentHistory(userID string, page, pageSize int) ([]models.MeetingRequest, int64, error)
	TotalSpent(userID string) (float64, error)

	// Admin operations
	FindWithFilter(criteria AdminMeetingFilter) ([]models.MeetingRequest, int64, error)
	CountAll() (int64, error)
	CountByStatus() (map[models.MeetingStatus]int64, error)
	CountNewSince(since time.Time) (int64, error)
	TotalRevenue() (float64, error)

	WithTx(tx *gorm.DB) MeetingRepository
}

type MeetingRepositoryImpl struct {
	db *gorm.DB
}

type MeetingFilter struct {
	Role     MeetingRole
	Status   models.MeetingStatus
	Page     int
	PageSize int
}

type AdminMeetingFilter struct {
	Status   models.MeetingStatus
	UserID   string
	Page     int
	PageSize int
}

func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &MeetingRepositoryImpl{db: db}
}

func (r *MeetingRepositoryImpl) WithTx(tx *gorm.DB) MeetingRepository {
	return &MeetingRepositoryImpl{db: tx}
}

func (r *MeetingRepositoryImpl) Create(meeting *models.MeetingRequest) error {
	return r.db.Create(meeting).Error
}

func (r *MeetingRepositoryImpl) FindByID(id string) (*models.MeetingRequest, error) {
	var meeting models.MeetingRequest
	err := r.db.Preload("Sender").Preload("Recipient").
		First(&meeting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepositoryImpl) Update(meeting *models.MeetingRequest) error {
	result := r.db.Save(meeting)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

// UpdateStatus меняет статус и сопутствующие поля одним UPDATE.
// Дополнительные поля передаются как column -> value.
func (r *MeetingRepositoryImpl) UpdateStatus(meetingID string, status models.MeetingStatus, updates map[string]interface{}) error {
	values := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	for col, val := range updates {
		values[col] = val
	}
	result := r.db.Model(&models.MeetingRequest{}).Where("id = ?", meetingID).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *MeetingRepositoryImpl) FindForUser(userID string, criteria MeetingFilter) ([]models.MeetingRequest, int64, error) {
	query := r.db.Model(&models.MeetingRequest{})

	switch criteria.Role {
	case MeetingRoleSent:
		query = query.Where("sender_id = ?", userID)
	case MeetingRoleReceived:
		query = query.Where("recipient_id = ?", userID)
	default:
		query = query.Where("sender_id = ? OR recipient_id = ?", userID, userID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meetings []models.MeetingRequest
	err := query.
		Preload("Sender").Preload("Recipient").
		Order("created_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}

func (r *MeetingRepositoryImpl) CountPendingReceived(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.MeetingRequest{}).
		Where("recipient_id = ? AND status = ?", userID, models.MeetingStatusPending).
		Count(&count).Error
	return count, err
}

// CountUpcomingAccepted - принятые встречи пользователя (с любой стороны)
// с датой в будущем
func (r *MeetingRepositoryImpl) CountUpcomingAccepted(userID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.MeetingRequest{}).
		Where("(sender_id = ? OR recipient_id = ?) AND status = ? AND scheduled_date >= ?",
			userID, userID, models.MeetingStatusAccepted, now).
		Count(&count).Error
	return count, err
}

// AcceptedLoad считает принятые встречи, где пользователь получатель,
// в окне дат вместе с суммарной длительностью в минутах. Используется
// рекомендательной проверкой доступности.
func (r *MeetingRepositoryImpl) AcceptedLoad(userID string, from, to time.Time) (int64, int64, error) {
	base := r.db.Model(&models.MeetingRequest{}).
		Where("recipient_id = ?", userID).
		Where("status = ?", models.MeetingStatusAccepted).
		Where("scheduled_date >= ? AND scheduled_date < ?", from, to)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return 0, 0, err
	}

	var minutes int64
	err := base.Select("COALESCE(SUM(duration), 0)").Scan(&minutes).Error
	if err != nil {
		return 0, 0, err
	}
	return count, minutes, nil
}

func (r *MeetingRepositoryImpl) PaymentHistory(userID string, page, pageSize int) ([]models.MeetingRequest, int64, error) {
	query := r.db.Model(&models.MeetingRequest{}).
		Where("sender_id = ? AND pay_total_paid > 0", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meetings []models.MeetingRequest
	err := query.
		Preload("Recipient").
		Order("pay_paid_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}

func (r *MeetingRepositoryImpl) TotalSpent(userID string) (float64, error) {
	var total float64
	err := r.db.Model(&models.MeetingRequest{}).
		Where("sender_id = ?", userID).
		Select("COALESCE(SUM(pay_total_paid), 0)").
		Scan(&total).Error
	return total, err
}

// Admin operations

func (r *MeetingRepositoryImpl) FindWithFilter(criteria AdminMeetingFilter) ([]models.MeetingRequest, int64, error) {
	query := r.db.Model(&models.MeetingRequest{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.UserID != "" {
		query = query.Where("sender_id = ? OR recipient_id = ?", criteria.UserID, criteria.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meetings []models.MeetingRequest
	err := query.
		Preload("Sender").Preload("Recipient").
		Order("created_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}

func (r *MeetingRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.MeetingRequest{}).Count(&count).Error
	return count, err
}

func (r *MeetingRepositoryImpl) CountByStatus() (map[models.MeetingStatus]int64, error) {
	var rows []struct {
		Status models.MeetingStatus
		Count  int64
	}
	err := r.db.Model(&models.MeetingRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.MeetingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *MeetingRepositoryImpl) CountNewSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.MeetingRequest{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *MeetingRepositoryImpl) TotalRevenue() (float64, error) {
	var total float64
	err := r.db.Model(&models.MeetingRequest{}).
		Select("COALESCE(SUM(pay_total_paid), 0)").
		Scan(&total).Error
	return total, err
}
