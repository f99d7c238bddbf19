package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blogcms/internal/config"
	"blogcms/internal/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   time.Hour,
		AdminID:           "admin",
		AdminEmail:        "Owner@Example.com",
		AdminPasswordHash: string(hash),
		SiteOwnerName:     "Jane Owner",
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testConfig(t))

	t.Run("Success", func(t *testing.T) {
		token, err := svc.Login(ctx, LoginInput{Email: " owner@example.com", Password: "correct horse"})

		require.NoError(t, err)
		assert.NotEmpty(t, token.AccessToken)
		assert.Equal(t, int64(3600), token.ExpiresIn)

		claims, err := svc.ValidateAccessToken(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, domain.Moderator{ID: "admin", Name: "Jane Owner"}, claims.Moderator())
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "battery staple"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Wrong email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "intruder@example.com", Password: "correct horse"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("No operator configured", func(t *testing.T) {
		_, err := NewService(&config.Config{JWTSecret: "x"}).Login(ctx, LoginInput{Email: "", Password: ""})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestService_ValidateAccessToken(t *testing.T) {
	cfg := testConfig(t)
	svc := NewService(cfg)

	sign := func(claims *Claims, secret string) string {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}
	valid := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.ValidateAccessToken(sign(&Claims{ModeratorID: "admin", RegisteredClaims: valid}, "other-secret"))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	expired := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}
	_, err = svc.ValidateAccessToken(sign(&Claims{ModeratorID: "admin", RegisteredClaims: expired}, cfg.JWTSecret))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.ValidateAccessToken(sign(&Claims{RegisteredClaims: valid}, cfg.JWTSecret))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	claims, err := svc.ValidateAccessToken(sign(&Claims{ModeratorID: "admin", Name: "Jane", RegisteredClaims: valid}, cfg.JWTSecret))
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.ModeratorID)
}
