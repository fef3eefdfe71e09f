package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeNotFound   = "ERR_NOT_FOUND"
	ErrCodeValidation = "ERR_VALIDATION"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,
	ErrCodeValidation: http.StatusBadRequest,

	// Shared domain codes
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Value object codes -> 400 Bad Request
	"INVALID_AMOUNT":     http.StatusBadRequest,
	"INVALID_CURRENCY":   http.StatusBadRequest,
	"CURRENCY_MISMATCH":  http.StatusBadRequest,
	"NEGATIVE_RESULT":    http.StatusBadRequest,
	"INVALID_DATE_RANGE": http.StatusBadRequest,

	// Account resolution codes
	"ACCOUNT_NOT_FOUND": http.StatusUnprocessableEntity,
	"ACCOUNT_INACTIVE":  http.StatusUnprocessableEntity,

	// Period lifecycle codes
	"PERIOD_NOT_FOUND":    http.StatusUnprocessableEntity,
	"PERIOD_LOCKED":       http.StatusUnprocessableEntity,
	"PERIOD_OVERLAP":      http.StatusConflict,
	"CANNOT_CLOSE_LOCKED": http.StatusUnprocessableEntity,

	// Journal entry codes
	"UNBALANCED_ENTRY":     http.StatusUnprocessableEntity,
	"EMPTY_ENTRY":          http.StatusUnprocessableEntity,
	"ALREADY_POSTED":       http.StatusConflict,
	"ENTRY_ALREADY_POSTED": http.StatusUnprocessableEntity,

	// Rule evaluation codes
	"FIELD_NOT_FOUND":   http.StatusUnprocessableEntity,
	"FIELD_NOT_NUMERIC": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
