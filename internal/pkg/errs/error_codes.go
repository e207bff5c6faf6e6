/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific request, credential, and session errors
both internally and in responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004
)

// 2xxx: Account and Credential Errors
const (
	// ErrInvalidLogin indicates that the supplied login name failed validation.
	ErrInvalidLogin = 2001

	// ErrInvalidPassword indicates that the supplied password failed validation.
	ErrInvalidPassword = 2002

	// ErrInvalidCredentials indicates a failed login. Unknown user and wrong
	// password are deliberately indistinguishable.
	ErrInvalidCredentials = 2003

	// ErrUserAlreadyExists indicates a signup attempt for a taken login name.
	ErrUserAlreadyExists = 2004

	// ErrUserNotFound indicates the account behind a presented token no longer exists.
	ErrUserNotFound = 2005
)

// 3xxx: Token and Session Errors
const (
	// ErrNotAuthenticated indicates a presented access token that is expired,
	// malformed, carries a bad signature, or is missing required claims.
	ErrNotAuthenticated = 3001

	// ErrRefreshTokenMissing indicates that no refresh token was supplied.
	ErrRefreshTokenMissing = 3002

	// ErrRefreshTokenInvalid indicates an expired, malformed, or tampered refresh token.
	ErrRefreshTokenInvalid = 3003

	// ErrRefreshTokenRevoked indicates a refresh token that was invalidated by logout.
	ErrRefreshTokenRevoked = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000
)
