package directoryerrors

import (
	"net/http"

	"go-dayoff/internal/shared/apperror"
)

var (
	ErrDuplicateAccount = apperror.New(
		apperror.CodeConflict,
		"an account with this id already exists",
		http.StatusConflict,
	)
	ErrMissingField = apperror.New(
		apperror.CodeInvalidInput,
		"account id and secret are required",
		http.StatusBadRequest,
	)
	ErrProtectedAccount = apperror.New(
		apperror.CodeForbidden,
		"the root admin account cannot be deleted",
		http.StatusForbidden,
	)
	ErrWeakSecret = apperror.New(
		apperror.CodeInvalidInput,
		"secret must be at least 4 characters",
		http.StatusBadRequest,
	)
	ErrBadCredential = apperror.New(
		apperror.CodeUnauthorized,
		"current secret does not match",
		http.StatusUnauthorized,
	)
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"account not found",
		http.StatusNotFound,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be standard or admin",
		http.StatusBadRequest,
	)
	ErrNegativeAllowance = apperror.New(
		apperror.CodeInvalidInput,
		"allowance cannot be negative",
		http.StatusBadRequest,
	)
)
