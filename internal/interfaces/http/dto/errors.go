package dto

import "net/http"

// Error codes. Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput covers missing or unknown request values
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	// ErrCodeInvalidState is used when an operation is invalid for the current
	// plan, subscription or session state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeGatewayMismatch is used when a caller names a gateway other than
	// the one the session was opened with
	ErrCodeGatewayMismatch = "ERR_GATEWAY_MISMATCH"

	ErrCodeGatewayFailed        = "ERR_GATEWAY_FAILED"
	ErrCodeGatewayUnavailable   = "ERR_GATEWAY_UNAVAILABLE"
	ErrCodeGatewayNotConfigured = "ERR_GATEWAY_NOT_CONFIGURED"

	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodeGatewayMismatch: http.StatusUnprocessableEntity,

	ErrCodeGatewayFailed:        http.StatusBadGateway,
	ErrCodeGatewayUnavailable:   http.StatusServiceUnavailable,
	ErrCodeGatewayNotConfigured: http.StatusInternalServerError,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code,
// 500 when the code is unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to API error codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"GATEWAY_MISMATCH":     ErrCodeGatewayMismatch,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format pass through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
