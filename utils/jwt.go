package utils

import (
	"errors"
	"time"

	"civicdesk/config"

	"github.com/golang-jwt/jwt"
)

// Claims carried by every access token.
type Claims struct {
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	jwt.StandardClaims
}

const fallbackSecret = "civicdesk-dev-secret"

// ErrMissingJWTSecret is returned by CheckJWTSecret when production runs without JWT_SECRET.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// CheckJWTSecret rejects the development fallback secret outside development.
func CheckJWTSecret() error {
	if config.AppConfig.JWTSecret == "" && config.IsProduction() {
		return ErrMissingJWTSecret
	}
	return nil
}

func secretKey() []byte {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	return []byte(fallbackSecret)
}

// GenerateToken creates a signed token for the given user id, role and department.
// The token expires after the specified duration.
func GenerateToken(subject, role, department string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:       role,
		Department: department,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns its claims.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	return claims, nil
}
