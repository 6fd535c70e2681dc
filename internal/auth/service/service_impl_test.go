package service_test

import (
	"context"
	"testing"

	"github.com/smallbiznis/billhub/internal/auth/domain"
	"github.com/smallbiznis/billhub/internal/auth/service"
	"github.com/smallbiznis/billhub/internal/auth/token"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	issuer, err := token.NewIssuer(config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{Secret: "s3cret", Issuer: "billhub", ExpiresMinutes: 60},
	}, clock.New(), zap.NewNop())
	require.NoError(t, err)
	return service.New(service.Params{Log: zap.NewNop(), Issuer: issuer})
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, clientType := range []string{"mobile", "Bank", "ADMIN"} {
		res, err := svc.Login(ctx, domain.LoginRequest{ClientType: clientType, Username: "demo", Password: "x"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.False(t, res.ExpiresAt.IsZero())

		principal, err := svc.Authenticate(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, "demo", principal.Subject)
		role, _ := domain.ParseRole(clientType)
		assert.Equal(t, role, principal.Role)
	}
}

func TestLoginValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Login(ctx, domain.LoginRequest{ClientType: "kiosk", Username: "demo"})
	assert.ErrorIs(t, err, domain.ErrInvalidClientType)

	_, err = svc.Login(ctx, domain.LoginRequest{ClientType: "mobile", Username: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidUsername)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
