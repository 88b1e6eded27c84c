package requesterrors

import (
	"fmt"
	"net/http"

	"go-dayoff/internal/shared/apperror"
)

var (
	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"a request for this date already exists",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid request status transition",
		http.StatusBadRequest,
	)
	ErrEmptyComment = apperror.New(
		apperror.CodeInvalidInput,
		"comment text cannot be empty",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requester may withdraw a pending request",
		http.StatusForbidden,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)

// CodeAllowanceExceeded gets its own code so callers can tell it apart
// from a duplicate-date conflict.
const CodeAllowanceExceeded = "ALLOWANCE_EXCEEDED"

// AllowanceExceeded reports an exhausted allowance for the given year.
func AllowanceExceeded(year int) *apperror.AppError {
	return apperror.New(
		CodeAllowanceExceeded,
		fmt.Sprintf("day-off allowance for the year %d is used up", year),
		http.StatusConflict,
	)
}
