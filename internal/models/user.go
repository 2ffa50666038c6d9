package models

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Company struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type SocialLinks struct {
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter"`
	Website  string `json:"website"`
	GitHub   string `json:"github"`
	Other    string `json:"other"`
}

type Location struct {
	City           string `json:"city"`
	Country        string `json:"country"`
	Address        string `json:"address"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

type MeetingPreferences struct {
	AcceptingRequests bool          `json:"acceptingRequests"`
	MeetingFormat     MeetingFormat `json:"meetingFormat"`
	MeetingTypes      []MeetingType `json:"meetingTypes"`
	Location          Location      `json:"location"`
}

// MeetingLimits - рекомендательные лимиты; нигде не применяются как жесткое
// ограничение, только в advisory-проверке доступности
type MeetingLimits struct {
	MaxMeetingsPerWeek  int `json:"maxMeetingsPerWeek"`
	MaxMeetingsPerMonth int `json:"maxMeetingsPerMonth"`
	MaxHoursPerWeek     int `json:"maxHoursPerWeek"`
	MaxHoursPerMonth    int `json:"maxHoursPerMonth"`
}

type RequestFee struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Pricing struct {
	RequestFee  RequestFee  `json:"requestFee"`
	MeetingRate MeetingRate `json:"meetingRate"`
	RateAmount  float64     `json:"rateAmount"`
	Currency    string      `json:"currency"`
}

// UserStatistics хранится отдельными колонками (embedded), чтобы
// инкременты шли через gorm.Expr в той же транзакции, что и смена
// статуса встречи. Счетчики монотонно растут, кроме как по явному
// действию админа.
type UserStatistics struct {
	RequestsSent           int64 `gorm:"default:0" json:"requestsSent"`
	RequestsReceived       int64 `gorm:"default:0" json:"requestsReceived"`
	RequestsAccepted       int64 `gorm:"default:0" json:"requestsAccepted"`
	RequestsRejected       int64 `gorm:"default:0" json:"requestsRejected"`
	SentAccepted           int64 `gorm:"default:0" json:"sentAccepted"`
	SentRejected           int64 `gorm:"default:0" json:"sentRejected"`
	TotalMeetingsCompleted int64 `gorm:"default:0" json:"totalMeetingsCompleted"`
}

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
	Bio          string `gorm:"type:varchar(500)" json:"bio"`
	Description  string `gorm:"type:varchar(1000)" json:"description"`

	// Компания разложена в колонки ради поиска и фасетов по названию
	CompanyName     string `gorm:"index" json:"-"`
	CompanyPosition string `json:"-"`

	Interests   datatypes.JSONSlice[string]     `json:"interests"`
	SocialLinks datatypes.JSONType[SocialLinks] `json:"socialLinks"`

	MeetingPreferences datatypes.JSONType[MeetingPreferences] `json:"meetingPreferences"`
	MeetingLimits      datatypes.JSONType[MeetingLimits]      `json:"meetingLimits"`
	Pricing            datatypes.JSONType[Pricing]            `json:"pricing"`

	Statistics UserStatistics `gorm:"embedded;embeddedPrefix:stat_" json:"statistics"`

	// Слаг публичной страницы; генерируется один раз при создании
	PublicMeetingLink string `gorm:"uniqueIndex" json:"publicMeetingLink"`

	StripeAccountID string `json:"stripeAccountId"`

	IsActive        bool       `gorm:"default:true" json:"isActive"`
	IsEmailVerified bool       `gorm:"default:false" json:"isEmailVerified"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`

	VerificationToken string     `json:"-"`
	ResetToken        string     `json:"-"`
	ResetTokenExp     *time.Time `json:"-"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

// Company собирает колонки обратно в документ для API-ответов
func (u *User) Company() Company {
	return Company{Name: u.CompanyName, Position: u.CompanyPosition}
}

// DefaultMeetingPreferences - значения для нового аккаунта
func DefaultMeetingPreferences() MeetingPreferences {
	return MeetingPreferences{
		AcceptingRequests: true,
		MeetingFormat:     MeetingFormatBoth,
		MeetingTypes:      []MeetingType{},
	}
}

func DefaultMeetingLimits() MeetingLimits {
	return MeetingLimits{
		MaxMeetingsPerWeek:  10,
		MaxMeetingsPerMonth: 40,
		MaxHoursPerWeek:     10,
		MaxHoursPerMonth:    40,
	}
}

func DefaultPricing() Pricing {
	return Pricing{
		RequestFee:  RequestFee{Amount: 0, Currency: "USD"},
		MeetingRate: MeetingRateFree,
		RateAmount:  0,
		Currency:    "USD",
	}
}

// GeneratePublicMeetingLink строит слаг из локальной части email плюс
// случайный суффикс. Вызывается один раз при регистрации, после этого
// слаг стабилен.
func GeneratePublicMeetingLink(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("%s-%s", strings.ToLower(local), string(suffix))
}

// AcceptanceRate - доля принятых входящих запросов в процентах,
// один знак после запятой. Всегда вычисляется, никогда не хранится.
func (u *User) AcceptanceRate() float64 {
	if u.Statistics.RequestsReceived == 0 {
		return 0
	}
	rate := float64(u.Statistics.RequestsAccepted) / float64(u.Statistics.RequestsReceived) * 100
	return math.Round(rate*10) / 10
}

// SentAcceptanceRate - доля принятых исходящих запросов в процентах
func (u *User) SentAcceptanceRate() float64 {
	if u.Statistics.RequestsSent == 0 {
		return 0
	}
	rate := float64(u.Statistics.SentAccepted) / float64(u.Statistics.RequestsSent) * 100
	return math.Round(rate*10) / 10
}

// FullName для писем и админки
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
