package apperror

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownAvatar   = errors.New("avatar is not in the catalogue")
	ErrInvalidRequest  = errors.New("invalid request")
)
