/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling. Messages for the auth
surface keep the exact wording clients already depend on.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Invalid request", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Invalid request", Status: http.StatusBadRequest},

	// 2xxx: Account and Credential Errors
	ErrInvalidLogin:       {Code: ErrInvalidLogin, Message: "username must be 4-20 characters of letters, numbers, - and _", Status: http.StatusBadRequest},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "password must be 6-64 characters with an uppercase letter, a lowercase letter and a number", Status: http.StatusBadRequest},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "username or password is incorrect", Status: http.StatusUnauthorized},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "user already exists", Status: http.StatusConflict},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "User does not exist", Status: http.StatusNotFound},

	// 3xxx: Token and Session Errors
	ErrNotAuthenticated:    {Code: ErrNotAuthenticated, Message: "not authenticated", Status: http.StatusUnauthorized},
	ErrRefreshTokenMissing: {Code: ErrRefreshTokenMissing, Message: "Unauthorized", Status: http.StatusUnauthorized},
	ErrRefreshTokenInvalid: {Code: ErrRefreshTokenInvalid, Message: "Forbidden", Status: http.StatusForbidden},
	ErrRefreshTokenRevoked: {Code: ErrRefreshTokenRevoked, Message: "Forbidden", Status: http.StatusForbidden},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
