/*
Package handler provides HTTP handler functions for credential issuance and refresh.

POST /auth covers both login and signup through an action discriminator, as the
original wire contract requires. Refresh tokens travel in an httpOnly cookie
and can be revoked server-side via the logout route.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/kurenai-11/socket-chat-app/internal/app/user"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/auth/jwt"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/errs"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/logx"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/req"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/resp"
)

// refreshCookieName is the cookie carrying the refresh token.
const refreshCookieName = "jwt"

var loginRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{4,20}$`)

// AuthInput is the single login/signup request body.
type AuthInput struct {
	Action   string `json:"action"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// VerifyInput optionally carries the refresh token in the body instead of the cookie.
type VerifyInput struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// HandleAuth processes POST /auth for both the "login" and "signup" actions.
func HandleAuth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AuthInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !loginRegex.MatchString(input.Login) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidLogin))
			return
		}

		if !validPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		switch input.Action {
		case "login":
			handleLogin(deps, w, r, input)
		case "signup":
			handleSignup(deps, w, r, input)
		default:
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
		}
	}
}

func handleLogin(deps *AppDeps, w http.ResponseWriter, r *http.Request, input AuthInput) {
	account, err := deps.Users.GetByUsername(r.Context(), input.Login)
	if err != nil {
		// unknown user and wrong password are deliberately indistinguishable
		if !errors.Is(err, user.ErrNotFound) {
			logx.Error(err, "login: user fetch failed", "username", input.Login)
		}
		resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
		return
	}

	if !user.VerifyPassword(account.PasswordHash, input.Password) {
		logx.Warn("login: password mismatch", "username", input.Login)
		resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
		return
	}

	issueSession(deps, w, r, account)
}

func handleSignup(deps *AppDeps, w http.ResponseWriter, r *http.Request, input AuthInput) {
	passwordHash, err := user.HashPassword(input.Password)
	if err != nil {
		logx.Error(err, "signup: password hashing failed")
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	// new accounts start with the login name as their display name
	account, err := deps.Users.Create(r.Context(), input.Login, passwordHash, input.Login)
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			logx.Warn("signup conflict: username already exists", "username", input.Login)
			resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
			return
		}

		logx.Error(err, "signup: failed to create user")
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	issueSession(deps, w, r, account)
}

// issueSession mints the access/refresh token pair, sets the refresh cookie,
// and sends the success body shared by login and signup.
func issueSession(deps *AppDeps, w http.ResponseWriter, r *http.Request, account user.User) {
	accessToken, err := jwt.GenerateToken(claimsFor(account), deps.Config.JWTSecret, jwt.AccessTokenExpiration)
	if err != nil {
		logx.Error(err, "failed to generate access token", "user_id", account.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	refreshToken, err := jwt.GenerateToken(claimsFor(account), deps.Config.JWTSecret, jwt.RefreshTokenExpiration)
	if err != nil {
		logx.Error(err, "failed to generate refresh token", "user_id", account.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	setRefreshCookie(w, refreshToken)

	resp.RespondSuccess(w, r, map[string]any{
		"user":        account,
		"accessToken": accessToken,
	})
}

// HandleVerify processes POST and GET /auth/verify: it exchanges a still-valid,
// unrevoked refresh token for a fresh access token.
func HandleVerify(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken := refreshTokenFromRequest(r)
		if refreshToken == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrRefreshTokenMissing))
			return
		}

		claims, err := jwt.ParseToken(refreshToken, deps.Config.JWTSecret)
		if err != nil || !claims.Complete() {
			logx.Warn("verify: refresh token rejected", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrRefreshTokenInvalid))
			return
		}

		account, err := deps.Users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "verify: user fetch failed", "user_id", claims.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		revoked, err := deps.Users.IsRefreshTokenRevoked(r.Context(), account.ID, refreshToken)
		if err != nil {
			logx.Error(err, "verify: revocation check failed", "user_id", account.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if revoked {
			logx.Warn("verify: refresh token revoked", "user_id", account.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrRefreshTokenRevoked))
			return
		}

		accessToken, err := jwt.GenerateToken(claimsFor(account), deps.Config.JWTSecret, jwt.AccessTokenExpiration)
		if err != nil {
			logx.Error(err, "verify: failed to generate access token", "user_id", account.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user":        account,
			"accessToken": accessToken,
		})
	}
}

// HandleLogout processes POST /auth/logout. The route sits behind
// jwt.RequireIdentity, so the caller's access token is already verified; the
// presented refresh token is revoked server-side and the cookie cleared.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := jwt.GetClaimsFromContext(r)
		if claims == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotAuthenticated))
			return
		}

		// a valid access token with the refresh cookie already gone
		cookie, err := r.Cookie(refreshCookieName)
		if err != nil || cookie.Value == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrRefreshTokenMissing))
			return
		}

		if err := deps.Users.RevokeRefreshToken(r.Context(), claims.UserID, cookie.Value); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "logout: revocation failed", "user_id", claims.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		clearRefreshCookie(w)

		resp.RespondSuccess(w, r, map[string]any{})
	}
}

// refreshTokenFromRequest reads the refresh token from the cookie, falling
// back to the request body for POSTs.
func refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if r.Method == http.MethodPost && r.Body != nil {
		var input VerifyInput
		if customErr := req.BindJSON(r, &input); customErr == nil {
			return input.RefreshToken
		}
	}

	return ""
}

func claimsFor(account user.User) *jwt.Claims {
	identity := account.Identity()

	return &jwt.Claims{
		UserID:      identity.UserID,
		Username:    identity.Username,
		DisplayName: identity.DisplayName,
	}
}

func setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(jwt.RefreshTokenExpiration.Seconds()),
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// validPassword enforces the original account policy: 6-64 characters with at
// least one uppercase letter, one lowercase letter and one digit.
func validPassword(password string) bool {
	length := utf8.RuneCountInString(password)
	if length < 6 || length > 64 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasUpper && hasLower && hasDigit
}
