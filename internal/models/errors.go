package models

import "errors"

// Business error kinds. Handlers map these to HTTP status codes with
// errors.Is, so repos and services must wrap them with %w.
var (
	ErrDuplicateAccount      = errors.New("account already registered")
	ErrInvalidCredentials    = errors.New("invalid login credentials")
	ErrAccessBlocked         = errors.New("account is blocked")
	ErrAccessUnverified      = errors.New("account is not verified")
	ErrTokenExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrAlreadyFollowing      = errors.New("already following this user")
	ErrContentRejected       = errors.New("content rejected because it contains profane words")
	ErrNotFound              = errors.New("resource not found")
	ErrValidation            = errors.New("invalid request data")
)
