// Package apperrors centralizes the error taxonomy exposed by the API.
// Every failure carries a stable machine-readable code alongside the
// human-readable message; internal detail never leaves the process.
package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is a classified failure.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports missing or malformed input.
func Validation(code, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized reports a missing, invalid, or expired session token.
func Unauthorized(code, message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Message: message}
}

// Forbidden reports an action the caller is not allowed to perform.
func Forbidden(code, message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code, Message: message}
}

// NotFound reports an unknown account or profile.
func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

// Conflict reports a uniqueness violation, e.g. a duplicate email.
func Conflict(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

// Internal wraps an unexpected storage or server failure. The underlying
// error is not exposed to the client.
func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "SERVER_ERROR", Message: message}
}

// From classifies err, falling back to a generic server failure.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("server error")
}

// Write reports err to the client as JSON with its taxonomy code.
func Write(w http.ResponseWriter, err error) {
	appErr := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(appErr)
}
