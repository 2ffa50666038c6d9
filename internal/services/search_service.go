package services

import (
	"context"
	"fmt"
	"time"

	"meetlink_backend/internal/cache"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/pkg/apperrors"
)

const (
	searchCacheTTL = 1 * time.Minute
	facetsCacheTTL = 10 * time.Minute
	facetLimit     = 100
)

type SearchService interface {
	Search(ctx context.Context, query *dto.SearchQuery, page, pageSize int) ([]dto.PublicProfileResponse, int64, error)
	Facets(ctx context.Context) (*dto.FacetsResponse, error)
	UserStats(ctx context.Context, userID string) (*dto.UserStatsResponse, error)
}

type SearchServiceImpl struct {
	userRepo    repositories.UserRepository
	meetingRepo repositories.MeetingRepository
}

func NewSearchService(userRepo repositories.UserRepository, meetingRepo repositories.MeetingRepository) SearchService {
	return &SearchServiceImpl{userRepo: userRepo, meetingRepo: meetingRepo}
}

type searchResultPage struct {
	Users []dto.PublicProfileResponse `json:"users"`
	Total int64                       `json:"total"`
}

// Search - публичный поиск активных пользователей, результат коротко
// кешируется по набору параметров
func (s *SearchServiceImpl) Search(ctx context.Context, query *dto.SearchQuery, page, pageSize int) ([]dto.PublicProfileResponse, int64, error) {
	key := fmt.Sprintf("search:%s:%s:%s:%t:%d:%d",
		query.Query, query.Interest, query.Company, query.OnlyOpen, page, pageSize)

	var result searchResultPage
	err := cache.CacheAside(ctx, key, &result, searchCacheTTL, func() error {
		users, total, err := s.userRepo.Search(repositories.SearchFilter{
			Query:    query.Query,
			Interest: query.Interest,
			Company:  query.Company,
			OnlyOpen: query.OnlyOpen,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return err
		}

		result.Total = total
		result.Users = make([]dto.PublicProfileResponse, 0, len(users))
		for i := range users {
			result.Users = append(result.Users, *dto.ToPublicProfileResponse(&users[i]))
		}
		return nil
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return result.Users, result.Total, nil
}

// Facets - топ интересов и компаний для фильтров поиска
func (s *SearchServiceImpl) Facets(ctx context.Context) (*dto.FacetsResponse, error) {
	var resp dto.FacetsResponse
	err := cache.CacheAside(ctx, "search:facets", &resp, facetsCacheTTL, func() error {
		interests, err := s.userRepo.TopInterests(facetLimit)
		if err != nil {
			return err
		}
		companies, err := s.userRepo.TopCompanies(facetLimit)
		if err != nil {
			return err
		}
		resp.Interests = interests
		resp.Companies = companies
		return nil
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &resp, nil
}

// UserStats - публичная статистика пользователя
func (s *SearchServiceImpl) UserStats(ctx context.Context, userID string) (*dto.UserStatsResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	upcoming, err := s.meetingRepo.CountUpcomingAccepted(userID, time.Now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UserStatsResponse{
		UserID:                 user.ID,
		RequestsReceived:       user.Statistics.RequestsReceived,
		RequestsAccepted:       user.Statistics.RequestsAccepted,
		RequestsRejected:       user.Statistics.RequestsRejected,
		AcceptanceRate:         user.AcceptanceRate(),
		SentAcceptanceRate:     user.SentAcceptanceRate(),
		TotalMeetingsCompleted: user.Statistics.TotalMeetingsCompleted,
		UpcomingMeetings:       upcoming,
	}, nil
}
