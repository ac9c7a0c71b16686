package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Authentication failure modes. Handlers collapse credential-related
	// failures into a generic message so responses never reveal which
	// check rejected the request.
	ErrRateLimited  = errors.New("too many login attempts")
	ErrTokenMissing = errors.New("no refresh token")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenInvalid = errors.New("invalid token")
)
