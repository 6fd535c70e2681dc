package domain

import "context"

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks
type Service interface {
	// Login issues a token for the requested client type. Credentials are not checked against a user store.
	Login(ctx context.Context, req LoginRequest) (LoginResult, error)
	Authenticate(ctx context.Context, rawToken string) (Principal, error)
}
