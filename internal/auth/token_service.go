package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AdminUser  = "admin"
	issuerName = "fitdash"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	expiry time.Duration
	// injectable for tests
	Now func() time.Time
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
		Now:    time.Now,
	}
}

func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

func (s *TokenService) Issue() (string, error) {
	now := s.Now()
	claims := Claims{
		User: AdminUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AdminUser,
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.User != AdminUser {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) IsLogged(_ context.Context, token string) (bool, error) {
	if _, err := s.Verify(token); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
