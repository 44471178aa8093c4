package dto

import (
	"net/http"

	"github.com/brokerage/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeInvalidInput: http.StatusBadRequest,

	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeAlreadyExists:      http.StatusConflict,
	shared.CodeStateViolation:     http.StatusConflict,
	shared.CodeDependencyConflict: http.StatusConflict,

	shared.CodeInvariantViolation: http.StatusUnprocessableEntity,

	shared.CodeUpstreamFailure: http.StatusBadGateway,
	shared.CodePartialApply:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes come back as 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
