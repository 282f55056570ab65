package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidEmail is returned when the email does not match the accepted pattern.
	ErrInvalidEmail = errors.New("email is not valid.")
	// ErrWeakPassword is returned when the password is shorter than the minimum length.
	ErrWeakPassword = errors.New("password is too short.")
	// ErrEmailTaken is returned when an active account already owns the email.
	ErrEmailTaken = errors.New("email is already used.")
	// ErrUserNotFound is returned when no account matches the email.
	ErrUserNotFound = errors.New("User is not found.")
	// ErrInvalidPassword is returned when the password hash check fails.
	ErrInvalidPassword = errors.New("Password is incorrect.")
	// ErrAccountInactive is returned by login when activation is required and missing.
	ErrAccountInactive = errors.New("Account is not activated.")
	// ErrInvalidToken is returned for tampered, malformed or mis-purposed tokens.
	ErrInvalidToken = errors.New("Token is not valid.")
	// ErrExpiredToken is returned when the token expiry has passed.
	ErrExpiredToken = errors.New("Token is expired.")
	// ErrInvalidActivationCode is the activation flavour of ErrInvalidToken.
	ErrInvalidActivationCode = errors.New("Activation code is not valid.")
	// ErrExpiredActivationCode is the activation flavour of ErrExpiredToken.
	ErrExpiredActivationCode = errors.New("Activation code is expired.")
	// ErrMalformedHeader is returned when the Authorization header is absent or not a Bearer token.
	ErrMalformedHeader = errors.New("Authorization header is missing or malformed.")
	// ErrMailDelivery is returned when the activation mail could not be sent.
	ErrMailDelivery = errors.New("activation mail could not be sent")
	// ErrEventNotFound is returned when an event is not found.
	ErrEventNotFound = errors.New("event not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

var codes = []struct {
	err    error
	status int
	code   string
}{
	{ErrInvalidEmail, http.StatusBadRequest, "INVALID_EMAIL"},
	{ErrWeakPassword, http.StatusBadRequest, "WEAK_PASSWORD"},
	{ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
	{ErrUserNotFound, http.StatusBadRequest, "USER_NOT_FOUND"},
	{ErrInvalidPassword, http.StatusBadRequest, "INVALID_PASSWORD"},
	{ErrAccountInactive, http.StatusBadRequest, "ACCOUNT_INACTIVE"},
	{ErrInvalidActivationCode, http.StatusBadRequest, "INVALID_TOKEN"},
	{ErrExpiredActivationCode, http.StatusBadRequest, "EXPIRED_TOKEN"},
	{ErrInvalidToken, http.StatusBadRequest, "INVALID_TOKEN"},
	{ErrExpiredToken, http.StatusBadRequest, "EXPIRED_TOKEN"},
	{ErrMalformedHeader, http.StatusBadRequest, "MALFORMED_HEADER"},
	{ErrMailDelivery, http.StatusBadGateway, "MAIL_DELIVERY_FAILED"},
	{ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are
// matched with errors.Is.
func MapErrorToHTTP(err error) *HTTPError {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return NewHTTPError(c.status, c.err.Error(), c.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
