package handlers

import (
	"meetlink_backend/internal/middleware"
	"meetlink_backend/internal/services"
	"meetlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("/intent", h.CreateIntent)
		payments.POST("/confirm", h.ConfirmPayment)
		payments.GET("/history", h.History)
	}
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateIntentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	intent, err := h.paymentService.CreateIntent(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, intent)
}

func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ConfirmPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meeting, err := h.paymentService.ConfirmPayment(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, meeting)
}

func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	history, total, err := h.paymentService.History(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondPage(c, history, page, pageSize, total)
}
