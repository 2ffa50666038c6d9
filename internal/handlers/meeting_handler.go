package handlers

import (
	"meetlink_backend/internal/middleware"
	"meetlink_backend/internal/services"
	"meetlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	*BaseHandler
	meetingService services.MeetingService
}

func NewMeetingHandler(base *BaseHandler, meetingService services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		BaseHandler:    base,
		meetingService: meetingService,
	}
}

func (h *MeetingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	meetings := rg.Group("/meetings")
	meetings.Use(middleware.AuthMiddleware())
	{
		meetings.POST("", h.Create)
		meetings.GET("", h.List)
		meetings.GET("/:id", h.Get)
		meetings.POST("/:id/respond", h.Respond)
		meetings.POST("/:id/cancel", h.Cancel)
		meetings.POST("/:id/complete", h.Complete)
		meetings.PUT("/:id/notes", h.UpdateNotes)
	}

	// доступность получателя смотрят до отправки запроса, но только
	// авторизованные пользователи
	availability := rg.Group("/availability")
	availability.Use(middleware.AuthMiddleware())
	availability.GET("/:userId", h.CheckAvailability)
}

// Create godoc
// @Summary Отправить запрос на встречу
// @Tags meetings
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Параметры встречи"
// @Success 201 {object} dto.MeetingResponse
// @Security BearerAuth
// @Router /meetings [post]
func (h *MeetingHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMeetingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meeting, err := h.meetingService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondCreated(c, meeting)
}

func (h *MeetingHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, meeting)
}

func (h *MeetingHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.MeetingListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)

	meetings, total, err := h.meetingService.List(c.Request.Context(), userID, &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondPage(c, meetings, page, pageSize, total)
}

// Respond godoc
// @Summary Ответить на запрос встречи (принять, отклонить, изменить)
// @Tags meetings
// @Accept json
// @Produce json
// @Param id path string true "ID запроса"
// @Param request body dto.RespondMeetingRequest true "Ответ"
// @Success 200 {object} dto.MeetingResponse
// @Security BearerAuth
// @Router /meetings/{id}/respond [post]
func (h *MeetingHandler) Respond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RespondMeetingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meeting, err := h.meetingService.Respond(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, meeting)
}

func (h *MeetingHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CancelMeetingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meeting, err := h.meetingService.Cancel(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, meeting)
}

func (h *MeetingHandler) Complete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.Complete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, meeting)
}

func (h *MeetingHandler) UpdateNotes(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateNotesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meeting, err := h.meetingService.UpdateNotes(c.Request.Context(), userID, c.Param("id"), req.Notes)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, meeting)
}

func (h *MeetingHandler) CheckAvailability(c *gin.Context) {
	availability, err := h.meetingService.CheckAvailability(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, availability)
}
