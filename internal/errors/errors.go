// Package errors provides custom error types for the complaints API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Access token required", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAdminRequired      = &AppError{Code: "ADMIN_REQUIRED", Message: "Admin access required", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrInitializing   = &AppError{Code: "INITIALIZING", Message: "Service temporarily unavailable. Databases are initializing...", StatusCode: http.StatusServiceUnavailable}
)

// User errors.
var (
	ErrUserNotFound  = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUser = &AppError{Code: "DUPLICATE_USER", Message: "Username or email already exists", StatusCode: http.StatusConflict}
	ErrWeakPassword  = &AppError{Code: "WEAK_PASSWORD", Message: "Password must be at least 6 characters", StatusCode: http.StatusBadRequest}
)

// Complaint errors.
var (
	ErrComplaintNotFound = &AppError{Code: "COMPLAINT_NOT_FOUND", Message: "Complaint not found", StatusCode: http.StatusNotFound}
	ErrInvalidStatus     = &AppError{Code: "INVALID_STATUS", Message: "Invalid status", StatusCode: http.StatusBadRequest}
	ErrTransitionBlocked = &AppError{Code: "TRANSITION_BLOCKED", Message: "Status transition not permitted", StatusCode: http.StatusBadRequest}
	ErrMissingFields     = &AppError{Code: "MISSING_FIELDS", Message: "Title, description, and category are required", StatusCode: http.StatusBadRequest}
)

// Upload errors.
var (
	ErrUploadRejected = &AppError{Code: "UPLOAD_REJECTED", Message: "File type not allowed", StatusCode: http.StatusBadRequest}
	ErrUploadTooLarge = &AppError{Code: "UPLOAD_TOO_LARGE", Message: "File exceeds the 5MB size limit", StatusCode: http.StatusBadRequest}
	ErrTooManyFiles   = &AppError{Code: "TOO_MANY_FILES", Message: "A complaint may have at most 5 attachments", StatusCode: http.StatusBadRequest}
)
