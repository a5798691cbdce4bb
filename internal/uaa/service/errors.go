package service

import (
	"errors"
	"fmt"
)

// ErrValidation wraps every input validation failure.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidClientID = fmt.Errorf("%w: client_id must be 1 to 50 characters", ErrValidation)
	ErrBlankSecret     = fmt.Errorf("%w: client_secret must not be blank", ErrValidation)
	ErrWeakPassword    = fmt.Errorf("%w: password is too short", ErrValidation)
	ErrInvalidLogin    = fmt.Errorf("%w: login must not be blank", ErrValidation)
	ErrInvalidEmail    = fmt.Errorf("%w: email is not a valid address", ErrValidation)

	ErrClientIDInUse  = errors.New("client id already in use")
	ErrClientNotFound = errors.New("client not found")

	ErrUserNotFound    = errors.New("user not found")
	ErrLoginInUse      = errors.New("login already in use")
	ErrEmailInUse      = errors.New("email already in use")
	ErrInvalidResetKey = errors.New("reset key is invalid or expired")
)

// Token endpoint errors. The values double as OAuth2 error codes.
var (
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidGrant         = errors.New("invalid_grant")
	ErrUnauthorizedClient   = errors.New("unauthorized_client")
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")
	ErrInvalidScope         = errors.New("invalid_scope")
)
