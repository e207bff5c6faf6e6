package jwt

import (
	"context"
	"net/http"
	"strings"

	"github.com/kurenai-11/socket-chat-app/internal/pkg/errs"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/logx"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/resp"
)

// Context key for the parsed Claims, preventing collisions with other packages.
type contextKey string

const (
	// ContextClaimsKey is the key used to store the verified *Claims in the request Context.
	ContextClaimsKey contextKey = "auth_claims"
)

// RequireIdentity returns middleware that rejects any request without a valid
// Bearer access token carrying complete identity claims. On success the Claims
// are injected into the request Context.
func RequireIdentity(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrNotAuthenticated))
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				resp.RespondError(w, r, errs.NewError(errs.ErrNotAuthenticated))
				return
			}

			claims, err := ParseToken(parts[1], secretKey)
			if err != nil {
				logx.Warn("Rejected request with invalid access token", "error", err)
				resp.RespondError(w, r, errs.NewError(errs.ErrNotAuthenticated))
				return
			}

			if !claims.Complete() {
				logx.Warn("Rejected request with incomplete token claims", "username", claims.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrNotAuthenticated))
				return
			}

			ctx := context.WithValue(r.Context(), ContextClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext extracts the verified Claims from the request Context.
// It returns nil when the request did not pass RequireIdentity.
func GetClaimsFromContext(r *http.Request) *Claims {
	claims, ok := r.Context().Value(ContextClaimsKey).(*Claims)

	if !ok {
		return nil
	}

	return claims
}
