package jwt

import "github.com/golang-jwt/jwt"

// Claims defines the signed token payload for the chat service. The same shape
// is used for short-lived access tokens and long-lived refresh tokens; only the
// expiration differs.
type Claims struct {
	// StandardClaims embeds the JWT standard fields such as ExpiresAt,
	// IssuedAt and Issuer, which drive token validity checks.
	jwt.StandardClaims

	// UserID is the account's numeric database identifier.
	UserID int64 `json:"userId,omitempty"`

	// Username is the unique login name of the account.
	Username string `json:"username,omitempty"`

	// DisplayName is the name shown to other chat participants.
	DisplayName string `json:"displayName,omitempty"`
}

// Complete reports whether all three identity claims are present. A token with
// a valid signature but incomplete claims must not grant an identity.
func (c *Claims) Complete() bool {
	return c.UserID != 0 && c.Username != "" && c.DisplayName != ""
}
