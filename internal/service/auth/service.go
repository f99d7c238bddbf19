package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"blogcms/internal/config"
	"blogcms/internal/domain"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Service interface {
	Login(ctx context.Context, input LoginInput) (*Token, error)
	ValidateAccessToken(token string) (*Claims, error)
}

// Claims identify the moderator acting on comments.
type Claims struct {
	ModeratorID string `json:"moderator_id"`
	Name        string `json:"name"`
	jwt.RegisteredClaims
}

func (c *Claims) Moderator() domain.Moderator {
	return domain.Moderator{ID: c.ModeratorID, Name: c.Name}
}

type service struct {
	cfg *config.Config
	now func() time.Time
}

func NewService(cfg *config.Config) Service {
	return &service{cfg: cfg, now: time.Now}
}

// Login checks the single operator account configured through ADMIN_EMAIL and
// ADMIN_PASSWORD_HASH.
func (s *service) Login(_ context.Context, input LoginInput) (*Token, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" || s.cfg.JWTSecret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	emailMatches := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(s.cfg.AdminEmail))) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(input.Password))
	if !emailMatches || passwordErr != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	claims := &Claims{
		ModeratorID: s.cfg.AdminID,
		Name:        s.cfg.SiteOwnerName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   s.cfg.AdminID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken: signed,
		ExpiresIn:   int64(s.cfg.JWTAccessExpiry.Seconds()),
	}, nil
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	if s.cfg.JWTSecret == "" {
		return nil, domain.ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ModeratorID == "" {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
