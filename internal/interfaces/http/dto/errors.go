package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for values the domain rejects
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized  = "ERR_UNAUTHORIZED"
	ErrCodeForbidden     = "ERR_FORBIDDEN"
	ErrCodeTokenExpired  = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid  = "ERR_TOKEN_INVALID"
	ErrCodeTokenNotValid = "ERR_TOKEN_NOT_YET_VALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Marketplace export error codes. They are reported as raised by the domain
// so API clients can match on them directly.
const (
	ErrCodeMissingProductCode    = "MISSING_PRODUCT_CODE"
	ErrCodeMissingIdentifiers    = "MISSING_IDENTIFIERS"
	ErrCodeDuplicateIdentifier   = "DUPLICATE_IDENTIFIER"
	ErrCodeDuplicateProductCode  = "DUPLICATE_PRODUCT_CODE"
	ErrCodeProductNotSelectable  = "PRODUCT_NOT_SELECTABLE"
	ErrCodeNoProducts            = "NO_PRODUCTS"
	ErrCodeNotFoundOnMarketplace = "NOT_FOUND_ON_MARKETPLACE"
)

// MWS upstream error codes
const (
	ErrCodeMWSRequestFailed   = "ERR_MWS_REQUEST_FAILED"
	ErrCodeMWSInvalidResponse = "ERR_MWS_INVALID_RESPONSE"
	ErrCodeMWSUnavailable     = "ERR_MWS_UNAVAILABLE"
	ErrCodeMWSThrottled       = "ERR_MWS_THROTTLED"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeTokenExpired:  http.StatusUnauthorized,
	ErrCodeTokenInvalid:  http.StatusUnauthorized,
	ErrCodeTokenNotValid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeMissingProductCode:    http.StatusUnprocessableEntity,
	ErrCodeMissingIdentifiers:    http.StatusUnprocessableEntity,
	ErrCodeProductNotSelectable:  http.StatusUnprocessableEntity,
	ErrCodeNoProducts:            http.StatusUnprocessableEntity,
	ErrCodeDuplicateIdentifier:   http.StatusConflict,
	ErrCodeDuplicateProductCode:  http.StatusConflict,
	ErrCodeNotFoundOnMarketplace: http.StatusNotFound,

	ErrCodeMWSRequestFailed:   http.StatusBadGateway,
	ErrCodeMWSInvalidResponse: http.StatusBadGateway,
	ErrCodeMWSUnavailable:     http.StatusServiceUnavailable,
	ErrCodeMWSThrottled:       http.StatusServiceUnavailable,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps the short codes raised by domain errors to the
// standardized API codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"INVALID_ACCOUNT":  ErrCodeInvalidInput,
	"INVALID_CURRENCY": ErrCodeInvalidInput,
	"INVALID_CODE":     ErrCodeInvalidInput,
	"INVALID_NAME":     ErrCodeInvalidInput,
	"INVALID_UNIT":     ErrCodeInvalidInput,
	"INVALID_PRICE":    ErrCodeInvalidInput,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the standardized format.
// Codes already in the new format, or unknown, are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
