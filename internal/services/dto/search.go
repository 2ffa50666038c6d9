package dto

import "meetlink_backend/internal/repositories"

// SearchQuery - параметры поиска пользователей
type SearchQuery struct {
	Query    string `form:"q" binding:"omitempty,max=100"`
	Interest string `form:"interest" binding:"omitempty,max=50"`
	Company  string `form:"company" binding:"omitempty,max=100"`
	OnlyOpen bool   `form:"acceptingOnly"`
}

// FacetsResponse - агрегированные значения для фильтров поиска
type FacetsResponse struct {
	Interests []repositories.FacetCount `json:"interests"`
	Companies []repositories.FacetCount `json:"companies"`
}

// UserStatsResponse - публичная статистика пользователя
type UserStatsResponse struct {
	UserID                 string  `json:"userId"`
	RequestsReceived       int64   `json:"requestsReceived"`
	RequestsAccepted       int64   `json:"requestsAccepted"`
	RequestsRejected       int64   `json:"requestsRejected"`
	AcceptanceRate         float64 `json:"acceptanceRate"`
	SentAcceptanceRate     float64 `json:"sentAcceptanceRate"`
	TotalMeetingsCompleted int64   `json:"totalMeetingsCompleted"`
	UpcomingMeetings       int64   `json:"upcomingMeetings"`
}
