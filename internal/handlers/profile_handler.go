package handlers

import (
	"meetlink_backend/internal/middleware"
	"meetlink_backend/internal/services"
	"meetlink_backend/internal/services/dto"
	"meetlink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.PUT("/preferences", h.UpdatePreferences)
		profile.POST("/image", h.UploadImage)
	}

	// публичный профиль по meeting-ссылке, без аутентификации
	rg.GET("/public/:link", h.GetPublicProfile)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, profile)
}

// GetPublicProfile godoc
// @Summary Публичный профиль по meeting-ссылке
// @Tags profile
// @Produce json
// @Param link path string true "Публичная meeting-ссылка"
// @Success 200 {object} dto.PublicProfileResponse
// @Router /public/{link} [get]
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	link := c.Param("link")
	if link == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing public link"))
		return
	}

	profile, err := h.profileService.GetPublicProfile(c.Request.Context(), link)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, profile)
}

func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePreferencesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdatePreferences(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, profile)
}

func (h *ProfileHandler) UploadImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing form file: image"))
		return
	}

	result, err := h.profileService.UploadProfileImage(c.Request.Context(), userID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, result)
}
