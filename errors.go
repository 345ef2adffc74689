package paystream

import (
	"errors"
	"fmt"
)

// AuthenticationError indicates a missing or rejected API key. The
// client raises it itself, without touching the network, when asked to
// make a request with an empty key.
type AuthenticationError struct {
	Message    string
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication error: no API key provided"
	}
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// ConnectionError indicates the request never produced a usable API
// response: a network or protocol failure, or a request the client
// could not build (for example an unsupported HTTP method).
type ConnectionError struct {
	Message string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("connection error: %s", e.Message)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// InvalidRequestError reports a request the API rejected as malformed
// or aimed at a resource that does not exist. Param names the
// offending parameter when the API identifies one.
type InvalidRequestError struct {
	Message    string
	Param      string
	StatusCode int
}

func (e *InvalidRequestError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("invalid request: %s (param: %s)", e.Message, e.Param)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// CardError reports a card the API declined. Code is the decline
// reason (for example "card_declined" or "expired_card") and Param
// names the card field at fault when there is one.
type CardError struct {
	Message    string
	Code       string
	Param      string
	StatusCode int
}

func (e *CardError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("card error: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("card error: %s", e.Message)
}

// APIError is the catch-all for API-side failures: statuses with no
// more specific mapping, and error responses whose body could not be
// parsed. Body holds the raw response text for diagnosis and RequestID
// the Request-Id header when the API sent one.
type APIError struct {
	Message    string
	StatusCode int
	Body       string
	RequestID  string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// DeserializationError reports a successful status whose payload did
// not match the expected record shape. Body holds the offending JSON
// and Field the record field that failed, when known.
type DeserializationError struct {
	Body  string
	Field string
	Err   error
}

func (e *DeserializationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("could not deserialize response (field %q): %s", e.Field, e.Body)
	}
	return fmt.Sprintf("could not deserialize response: %s", e.Body)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError checks if the error is an authentication error.
func IsAuthenticationError(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

// IsConnectionError checks if the error is a connection error.
func IsConnectionError(err error) bool {
	var e *ConnectionError
	return errors.As(err, &e)
}

// IsInvalidRequestError checks if the error is an invalid request error.
func IsInvalidRequestError(err error) bool {
	var e *InvalidRequestError
	return errors.As(err, &e)
}

// IsCardError checks if the error is a card error.
func IsCardError(err error) bool {
	var e *CardError
	return errors.As(err, &e)
}

// IsAPIError checks if the error is a generic API error.
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsDeserializationError checks if the error is a deserialization error.
func IsDeserializationError(err error) bool {
	var e *DeserializationError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error reports a resource that does
// not exist.
func IsNotFoundError(err error) bool {
	var e *InvalidRequestError
	return errors.As(err, &e) && e.StatusCode == 404
}
