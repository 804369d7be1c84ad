package dto

import "net/http"

// Transport error codes. Domain failures carry their own domain error code.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeForbidden       = "ACCESS_DENIED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Transport
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidID:       http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,

	// Input
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_QUANTITY":     http.StatusBadRequest,
	"UNKNOWN_GROUPING":     http.StatusBadRequest,
	"INVALID_GROUPING":     http.StatusBadRequest,
	"DUPLICATE_GROUPING":   http.StatusBadRequest,
	"INVALID_HOLDER":       http.StatusBadRequest,
	"INVALID_PRICE":        http.StatusBadRequest,
	"INVALID_STATUS":       http.StatusBadRequest,
	"INVALID_NAME":         http.StatusBadRequest,
	"INVALID_DESCRIPTION":  http.StatusBadRequest,
	"INVALID_ROLE":         http.StatusBadRequest,
	"INVALID_TENANT":       http.StatusBadRequest,
	"INVALID_USERNAME":     http.StatusBadRequest,
	"INVALID_DISPLAY_NAME": http.StatusBadRequest,
	"INVALID_TENANT_CODE":  http.StatusBadRequest,
	"INVALID_TENANT_NAME":  http.StatusBadRequest,

	// Conflicts with current state
	"INVALID_TRANSITION":     http.StatusConflict,
	"ALREADY_SOLD":           http.StatusConflict,
	"INSUFFICIENT_INVENTORY": http.StatusConflict,
	"CANNOT_DELETE_SOLD":     http.StatusConflict,
	"INVALID_STATE":          http.StatusConflict,
	"ALREADY_EXISTS":         http.StatusConflict,
	"ALREADY_ACTIVE":         http.StatusConflict,
	"ALREADY_INACTIVE":       http.StatusConflict,

	"INCONSISTENT_STATE": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
