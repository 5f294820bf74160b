package auth

import "errors"

var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrInvalidRole         = errors.New("invalid role")
	ErrPermissionDenied    = errors.New("insufficient permissions")
	ErrActorMissingInToken = errors.New("token carries no user id")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrOperatorExists     = errors.New("operator with this email already exists")
)
