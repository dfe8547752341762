package service

import (
	"net/http"

	commonerrors "github.com/authgate/authgate/internal/common/errors"
)

var (
	ErrInvalidInput = commonerrors.NewDomainError(
		"INVALID_INPUT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username and password are required",
	)

	ErrUsernameTaken = commonerrors.NewDomainError(
		"DUPLICATE_USERNAME",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username already exists",
	)

	// ErrAuthenticationFailed deliberately covers both unknown-user and
	// wrong-password so callers cannot enumerate usernames.
	ErrAuthenticationFailed = commonerrors.NewDomainError(
		"AUTHENTICATION_FAILED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid username or password",
	)

	ErrUnauthenticated = commonerrors.NewDomainError(
		"UNAUTHENTICATED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"unauthorized",
	)

	ErrStorageUnavailable = commonerrors.NewDomainError(
		"STORAGE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"storage temporarily unavailable",
	)
)
