package domain

import "errors"

var (
	ErrInvalidClientType = errors.New("invalid client type")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrMissingToken      = errors.New("missing token")
	ErrInvalidToken      = errors.New("invalid token")
)
