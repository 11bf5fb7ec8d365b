package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

var (
	InvalidCredentials  = &ErrorWithStatusCode{Message: "Invalid login credentials.", StatusCode: http.StatusUnauthorized}
	AuthorizationDenied = &ErrorWithStatusCode{Message: "You are not authorized to access this page.", StatusCode: http.StatusForbidden}
)

// NotFound builds a 404 error for the named entity, e.g. NotFound("Post").
func NotFound(entity string) error {
	return &ErrorWithStatusCode{Message: entity + " not found.", StatusCode: http.StatusNotFound}
}

func ValidationError(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest}
}

// StatusCode returns the HTTP status carried by err, 500 if there is none.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func hasStatus(err error, code int) bool {
	var e *ErrorWithStatusCode
	return errors.As(err, &e) && e.StatusCode == code
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func IsValidation(err error) bool {
	return hasStatus(err, http.StatusBadRequest)
}

func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}
