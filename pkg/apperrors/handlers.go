package apperrors

import (
	"log"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
	Message string    `json:"message"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
		if !h.Debug {
			appErr.Message = "Internal server error"
			appErr.Details = nil
		}
	}

	if appErr.HTTPCode >= 500 {
		log.Printf("Server error: %v", appErr.Unwrap())
	}

	// Текущая политика API: 5xx не прячут исходную ошибку от клиента.
	// Копия, чтобы не трогать разделяемые значения ошибок.
	out := *appErr
	if h.Debug && out.HTTPCode >= 500 && out.Err != nil {
		out.Message = out.Message + ": " + out.Err.Error()
	}

	c.JSON(out.HTTPCode, ErrorResponse{
		Success: false,
		Error:   &out,
		Message: out.Message,
	})
}

// HandleError - быстрая функция-помощник для Gin.
// Debug включен: текущая политика API отдает underlying message клиенту.
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: true}
	handler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
