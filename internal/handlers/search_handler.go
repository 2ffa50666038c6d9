package handlers

import (
	"meetlink_backend/internal/services"
	"meetlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	*BaseHandler
	searchService services.SearchService
}

func NewSearchHandler(base *BaseHandler, searchService services.SearchService) *SearchHandler {
	return &SearchHandler{
		BaseHandler:   base,
		searchService: searchService,
	}
}

// Поиск открыт без аутентификации: каталог профилей публичный.
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	search := rg.Group("/search")
	{
		search.GET("/users", h.SearchUsers)
		search.GET("/facets", h.Facets)
	}

	rg.GET("/users/:id/stats", h.UserStats)
}

// SearchUsers godoc
// @Summary Поиск пользователей по имени, интересам и компании
// @Tags search
// @Produce json
// @Param q query string false "Текстовый запрос"
// @Param interest query string false "Интерес"
// @Param company query string false "Компания"
// @Param acceptingOnly query bool false "Только принимающие запросы"
// @Success 200 {array} dto.PublicProfileResponse
// @Router /search/users [get]
func (h *SearchHandler) SearchUsers(c *gin.Context) {
	var query dto.SearchQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)

	users, total, err := h.searchService.Search(c.Request.Context(), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondPage(c, users, page, pageSize, total)
}

func (h *SearchHandler) Facets(c *gin.Context) {
	facets, err := h.searchService.Facets(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, facets)
}

func (h *SearchHandler) UserStats(c *gin.Context) {
	stats, err := h.searchService.UserStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, stats)
}
