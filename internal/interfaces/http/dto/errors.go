package dto

import "net/http"

// Error codes surfaced over HTTP. Domain errors carry these codes
// directly; the handler layer only translates them to status codes.
const (
	// General
	CodeInternal            = "INTERNAL_ERROR"
	CodeBadRequest          = "BAD_REQUEST"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeRequestTooLarge     = "REQUEST_TOO_LARGE"
	CodeBackingStoreFailure = "BACKING_STORE_FAILURE"

	// Authentication
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeAccountLocked          = "ACCOUNT_LOCKED"
	CodeAccountDeactivated     = "ACCOUNT_DEACTIVATED"
	CodeTokenExpired           = "TOKEN_EXPIRED"
	CodeTokenInvalid           = "TOKEN_INVALID"
	CodeTokenRevoked           = "TOKEN_REVOKED"
	CodeTokenMaxRefresh        = "TOKEN_MAX_REFRESH"
	CodeForbidden              = "FORBIDDEN"

	// Resources
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	CodeInternal:            http.StatusInternalServerError,
	CodeBackingStoreFailure: http.StatusInternalServerError,
	"TOKEN_GENERATION_FAILED": http.StatusInternalServerError,

	CodeBadRequest:       http.StatusBadRequest,
	CodeValidationFailed: http.StatusBadRequest,
	CodeInvalidInput:     http.StatusBadRequest,
	"INVALID_USERNAME":   http.StatusBadRequest,
	"INVALID_PASSWORD":   http.StatusBadRequest,
	"INVALID_EMAIL":      http.StatusBadRequest,
	"INVALID_CODE":       http.StatusBadRequest,
	"INVALID_NAME":       http.StatusBadRequest,
	"INVALID_COST":       http.StatusBadRequest,
	"INVALID_MARGIN":     http.StatusBadRequest,
	"INVALID_IMAGE_URL":  http.StatusBadRequest,

	CodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	CodeAuthenticationRequired: http.StatusUnauthorized,
	CodeInvalidCredentials:     http.StatusUnauthorized,
	CodeTokenExpired:           http.StatusUnauthorized,
	CodeTokenInvalid:           http.StatusUnauthorized,
	CodeTokenRevoked:           http.StatusUnauthorized,
	CodeTokenMaxRefresh:        http.StatusUnauthorized,
	"UNAUTHORIZED":             http.StatusUnauthorized,

	CodeAccountLocked:      http.StatusForbidden,
	CodeAccountDeactivated: http.StatusForbidden,
	CodeForbidden:          http.StatusForbidden,

	CodeNotFound:            http.StatusNotFound,
	CodeAlreadyExists:       http.StatusConflict,
	CodeConcurrencyConflict: http.StatusConflict,

	CodeInvalidState: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code,
// defaulting to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
