package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/billhub/internal/auth/domain"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() config.Config {
	return config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			Secret:         "unit-test-secret",
			Issuer:         "billhub",
			Audience:       "billhub-clients",
			ExpiresMinutes: 30,
		},
	}
}

func TestIssueAndVerify(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC))
	issuer, err := NewIssuer(testConfig(), clk, zap.NewNop())
	require.NoError(t, err)

	signed, expiresAt, err := issuer.Issue("alice", domain.RoleMobile)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(30*time.Minute), expiresAt)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, domain.RoleMobile, claims.Role)
	assert.Equal(t, "billhub", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"billhub-clients"}, claims.Audience)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC))
	issuer, err := NewIssuer(testConfig(), clk, zap.NewNop())
	require.NoError(t, err)

	signed, _, err := issuer.Issue("alice", domain.RoleBank)
	require.NoError(t, err)

	clk.Advance(31 * time.Minute)
	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsForeignSecretAndAudience(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	issuer, err := NewIssuer(testConfig(), clk, zap.NewNop())
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "another-secret"
	foreign, err := NewIssuer(other, clk, zap.NewNop())
	require.NoError(t, err)
	signed, _, err := foreign.Issue("mallory", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	wrongAudience := testConfig()
	wrongAudience.JWT.Audience = "someone-else"
	elsewhere, err := NewIssuer(wrongAudience, clk, zap.NewNop())
	require.NoError(t, err)
	signed, _, err = elsewhere.Issue("mallory", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	issuer, err := NewIssuer(testConfig(), clock.New(), zap.NewNop())
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.Error(t, err)
}

func TestNewIssuerRequiresSecretInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.Secret = ""
	cfg.Environment = "production"
	_, err := NewIssuer(cfg, nil, zap.NewNop())
	assert.Error(t, err)

	cfg.Environment = "development"
	issuer, err := NewIssuer(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []byte(devSecret), issuer.secret)
}
