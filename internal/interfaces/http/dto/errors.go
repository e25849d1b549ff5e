package dto

import "net/http"

// General error codes used by the HTTP layer itself
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeDuplicate    = "DUPLICATE_REQUEST"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing here fall back by prefix (INVALID_* -> 400) and finally
// to 422, since an unmapped domain error is a business rule refusal, not
// a server fault.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeDuplicate:    http.StatusConflict,

	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_PHONE":      http.StatusConflict,
	"DUPLICATE_CODE":       http.StatusConflict,

	"STUDENT_DEACTIVATED":        http.StatusUnprocessableEntity,
	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"DOWN_PAYMENT_EXCEEDS_TOTAL": http.StatusUnprocessableEntity,
	"INSUFFICIENT_CASH":          http.StatusUnprocessableEntity,
	"SELF_RECEIPT":               http.StatusUnprocessableEntity,
	"SAME_CENTRE":                http.StatusUnprocessableEntity,
	"SAME_COURSE":                http.StatusUnprocessableEntity,
	"TRANSFER_PASSWORD_NOT_SET":  http.StatusUnprocessableEntity,
	"WEAK_PASSWORD":              http.StatusUnprocessableEntity,
	"NOTHING_TO_DIVIDE":          http.StatusUnprocessableEntity,
	"MONTH_OUT_OF_RANGE":         http.StatusUnprocessableEntity,
	"MONTH_NOT_BILLED":           http.StatusUnprocessableEntity,
	"NOT_BOARD_ADMISSION":        http.StatusUnprocessableEntity,
	"BILL_NOT_AVAILABLE":         http.StatusUnprocessableEntity,
	"NOT_PAID":                   http.StatusUnprocessableEntity,
	"CENTRE_INACTIVE":            http.StatusUnprocessableEntity,
	"PENDING_CLEARANCE":          http.StatusUnprocessableEntity,
	"ALREADY_PAID":               http.StatusUnprocessableEntity,
	"UNKNOWN_SUBJECT":            http.StatusUnprocessableEntity,

	"INSTALLMENT_NOT_FOUND": http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if len(code) > 8 && code[:8] == "INVALID_" {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
