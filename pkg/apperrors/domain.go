package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок платформы
(пользователи, встречи, платежи).
*/

// =========================================================================
// Фабричные функции (оборачивание ошибок репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrUpstream - внешний сервис (email, видеосвязь, платежи) вернул ошибку (502)
func ErrUpstream(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

// =========================================================================
// Фабричные функции (создание новых ошибок)
// =========================================================================

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - переход статуса встречи вне state machine (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные переменные
// =========================================================================

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 6 characters",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"A user with this email already exists",
	http.StatusConflict,
)

var ErrAccountDeactivated = New(
	CodeForbidden,
	"auth",
	"This account has been deactivated",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Users / Admin ---

var ErrUserNotFound = New(
	CodeNotFound,
	"users",
	"User not found",
	http.StatusNotFound,
)

// ErrSuperAdminProtected - супер-админа нельзя удалить/деактивировать/изменить другим админом
var ErrSuperAdminProtected = New(
	CodeForbidden,
	"admin",
	"SuperAdmin accounts cannot be modified by other administrators",
	http.StatusForbidden,
)

// --- Meetings ---

var ErrMeetingNotFound = New(
	CodeNotFound,
	"meetings",
	"Meeting request not found",
	http.StatusNotFound,
)

var ErrSelfMeetingRequest = New(
	CodeValidationFailed,
	"meetings",
	"You cannot send a meeting request to yourself",
	http.StatusBadRequest,
)

var ErrNotAcceptingRequests = New(
	CodeForbidden,
	"meetings",
	"This user is not accepting meeting requests at the moment",
	http.StatusForbidden,
)

var ErrNotMeetingParticipant = New(
	CodeForbidden,
	"meetings",
	"You are not a participant of this meeting request",
	http.StatusForbidden,
)

var ErrNotMeetingRecipient = New(
	CodeForbidden,
	"meetings",
	"Only the recipient can respond to this request",
	http.StatusForbidden,
)

// --- Payments ---

var ErrPaymentNotCompleted = New(
	CodeInvalidStatus,
	"payments",
	"Payment has not been completed",
	http.StatusBadRequest,
)

var ErrInvalidPaymentAmount = New(
	CodeValidationFailed,
	"payments",
	"Invalid payment amount",
	http.StatusBadRequest,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"Only image files are allowed",
	http.StatusUnsupportedMediaType,
)
