package handlers

import (
	"meetlink_backend/internal/middleware"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/services"
	"meetlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RequireRoles(models.UserRoleSuperAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.PUT("/users/:id/active", h.SetUserActive)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.POST("/users/:id/reset-stats", h.ResetUserStatistics)
		admin.GET("/meetings", h.ListMeetings)
		admin.GET("/stats", h.PlatformStats)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.AdminUserQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)

	users, total, err := h.adminService.ListUsers(c.Request.Context(), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondPage(c, users, page, pageSize, total)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	detail, err := h.adminService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, detail)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.AdminUpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, user)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req setActiveRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.adminService.SetUserActive(c.Request.Context(), caller, c.Param("id"), *req.Active)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondMessage(c, "User deleted")
}

func (h *AdminHandler) ResetUserStatistics(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	if err := h.adminService.ResetUserStatistics(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondMessage(c, "Statistics reset")
}

func (h *AdminHandler) ListMeetings(c *gin.Context) {
	var query dto.AdminMeetingQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)

	meetings, total, err := h.adminService.ListMeetings(c.Request.Context(), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondPage(c, meetings, page, pageSize, total)
}

func (h *AdminHandler) PlatformStats(c *gin.Context) {
	stats, err := h.adminService.PlatformStats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, stats)
}
