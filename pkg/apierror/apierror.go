// Package apierror holds the errors the HTTP layer answers with. Every value
// serializes as {"status": <code>, "message": <text>}.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse interface {
	error
	Code() int
}

type simpleError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *simpleError) Error() string { return e.Message }
func (e *simpleError) Code() int     { return e.Status }

func NewSimple(code int, message string) ErrorResponse {
	return &simpleError{Status: code, Message: message}
}

var (
	InternalServerError = NewSimple(http.StatusInternalServerError, "Internal server error")
	MalformedBodyError  = NewSimple(http.StatusBadRequest, "Malformed request body")

	// conflict: the store's unique constraint on users.email fired
	UserAlreadyExistsError = NewSimple(http.StatusBadRequest, "A user with this email already exists")
	UserNotFoundError      = NewSimple(http.StatusBadRequest, "User not found")
	InvalidPasswordError   = NewSimple(http.StatusUnauthorized, "Invalid password")

	// referential: a foreign key on appointments fired
	InvalidReferenceError = NewSimple(http.StatusBadRequest, "Nonexistent doctor or invalid user")
	DoctorNotFoundError   = NewSimple(http.StatusNotFound, "Doctor not found")

	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Invalid or missing auth token")
	ForbiddenUserError    = NewSimple(http.StatusForbidden, "Token does not belong to the requested user")
	TooManyRequestsError  = NewSimple(http.StatusTooManyRequests, "Too many requests")
)

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter: %s", name))
}

func NewInvalidParamTypeError(name, typ string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter %s must be of type %s", name, typ))
}

// FromValidationError turns validator output into a single 400 response.
// Missing fields are listed together so the client can show one message.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	var missing, invalid []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "email":
			invalid = append(invalid, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "rfc3339":
			invalid = append(invalid, fmt.Sprintf("%s must be an RFC 3339 timestamp", fe.Field()))
		case "max":
			invalid = append(invalid, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "maxbytes":
			invalid = append(invalid, fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param()))
		default:
			invalid = append(invalid, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "Missing required fields: "+strings.Join(missing, ", "))
	}
	parts = append(parts, invalid...)
	return NewSimple(http.StatusBadRequest, strings.Join(parts, "; "))
}
