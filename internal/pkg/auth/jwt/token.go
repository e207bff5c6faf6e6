package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// AccessTokenExpiration defines the duration of access tokens presented on
	// the realtime channel (short-term).
	AccessTokenExpiration = 15 * time.Minute

	// RefreshTokenExpiration defines the duration of refresh tokens stored in
	// the httpOnly cookie (long-term).
	RefreshTokenExpiration = 72 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "socket-chat-app"
)

// Typed validation failures so callers can distinguish why a token was rejected.
var (
	// ErrTokenExpired indicates the token's validity window has passed (or not started).
	ErrTokenExpired = errors.New("token is expired")

	// ErrTokenMalformed indicates the token string is not a parseable JWT.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenInvalid indicates a bad signature or any other validation failure.
	ErrTokenInvalid = errors.New("token is invalid")
)

// GenerateToken signs a new token string carrying the given identity claims.
// The standard claims are overwritten with a fresh validity window.
func GenerateToken(claims *Claims, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims.StandardClaims = jwt.StandardClaims{
		ExpiresAt: now.Add(duration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ParseToken validates the token string against the secret key and returns its
// claims. Failures are mapped to ErrTokenExpired, ErrTokenMalformed or
// ErrTokenInvalid.
func ParseToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
				return nil, ErrTokenExpired
			}
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
