/*
Package chat contains the core logic for the realtime channel: connection
authentication, the live-connection registry, and message broadcasting.

This file defines the connection authenticator. Anonymous access is a
first-class mode: only a present-but-invalid token is rejected, so "didn't log
in" and "tampered credential" are treated differently.
*/
package chat

import (
	"errors"
	"fmt"

	"github.com/kurenai-11/socket-chat-app/internal/app/user"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/auth/jwt"
)

// AuthenticationError marks a presented credential that failed validation:
// expired, malformed, wrong signature, or valid with incomplete claims.
// Connections carrying one are refused at connect time and forcibly terminated
// on a per-event re-check.
type AuthenticationError struct {
	Reason error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("not authenticated: %v", e.Reason)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Reason
}

// errIncompleteClaims covers a validly signed token missing one of the three
// required identity claims.
var errIncompleteClaims = errors.New("token claims are incomplete")

// Authenticator derives a connection Identity from an optional bearer token.
type Authenticator struct {
	secretKey string
}

// NewAuthenticator returns an Authenticator validating tokens against the given key.
func NewAuthenticator(secretKey string) *Authenticator {
	return &Authenticator{secretKey: secretKey}
}

// Authenticate produces the Identity for the given access token.
// An absent token yields the anonymous identity and never an error. A present
// token must validate and carry userId, username and displayName; anything
// else is an *AuthenticationError.
func (a *Authenticator) Authenticate(accessToken string) (user.Identity, error) {
	if accessToken == "" {
		return user.Anonymous(), nil
	}

	claims, err := jwt.ParseToken(accessToken, a.secretKey)
	if err != nil {
		return user.Identity{}, &AuthenticationError{Reason: err}
	}

	if !claims.Complete() {
		return user.Identity{}, &AuthenticationError{Reason: errIncompleteClaims}
	}

	return user.Identity{
		UserID:      claims.UserID,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
	}, nil
}
