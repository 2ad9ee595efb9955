package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// HarnessClaims identify a game harness allowed to request moves.
type HarnessClaims struct {
	Harness string `json:"harness"`
	jwt.RegisteredClaims
}

// GenerateHarnessToken signs an HS256 token for harness valid for ttl.
func GenerateHarnessToken(secret, harness string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	if strings.TrimSpace(harness) == "" {
		return "", errors.New("harness name is empty")
	}

	now := time.Now()
	claims := &HarnessClaims{
		Harness: harness,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   harness,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateHarnessToken validates a harness token and returns its claims
func ValidateHarnessToken(secret, tokenString string) (*HarnessClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &HarnessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*HarnessClaims); ok && token.Valid && claims.Harness != "" {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
