package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// token lifecycle errors, kept distinct so callers can
	// tell an expired token from a forged or malformed one
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrUnknownSubject    = errors.New("unknown subject")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInsufficientRole  = errors.New("insufficient role")

	// account errors
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmailTaken        = errors.New("email already registered")

	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// upload pipeline errors
	ErrStorageUpload   = errors.New("storage upload failed")
	ErrStorageDelete   = errors.New("storage delete failed")
	ErrMetadataPersist = errors.New("metadata persist failed")
	ErrPartialDelete   = errors.New("partial delete")
)
