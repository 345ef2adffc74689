package paystream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/paystream/paystream-go/internal/wirejson"
)

// errorBody is the wire shape inside an error response envelope. Its
// keys carry no underscores, so normalization leaves them alone.
type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Param   string `json:"param"`
}

// interpretResponse normalizes the raw body and either returns the
// payload bytes to decode (2xx) or the typed error the status and
// error envelope map to. Normalization happens before anything reads
// a field, so downstream code only ever sees camelCase keys.
func interpretResponse(body string, status int, header http.Header) ([]byte, error) {
	normalized, parseErr := wirejson.Normalize([]byte(body))

	if status >= 200 && status < 300 {
		if parseErr != nil {
			return nil, &DeserializationError{Body: body, Err: parseErr}
		}
		return normalized, nil
	}
	return nil, errorFromResponse(body, normalized, status, header, parseErr)
}

// errorFromResponse maps a non-2xx response to its typed error. When
// the body carries a well-formed error envelope the status selects the
// kind; anything else degrades to an APIError holding the raw body.
func errorFromResponse(raw string, normalized []byte, status int, header http.Header, parseErr error) error {
	requestID := header.Get("Request-Id")

	e, err := extractError(normalized, parseErr)
	if err != nil {
		return &APIError{
			Message:    fmt.Sprintf("unexpected response: %s", raw),
			StatusCode: status,
			Body:       raw,
			RequestID:  requestID,
			Err:        err,
		}
	}

	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return &InvalidRequestError{Message: e.Message, Param: e.Param, StatusCode: status}
	case http.StatusUnauthorized:
		return &AuthenticationError{Message: e.Message, StatusCode: status}
	case http.StatusPaymentRequired:
		return &CardError{Message: e.Message, Code: e.Code, Param: e.Param, StatusCode: status}
	default:
		return &APIError{
			Message:    e.Message,
			StatusCode: status,
			Body:       raw,
			RequestID:  requestID,
		}
	}
}

func extractError(normalized []byte, parseErr error) (errorBody, error) {
	var e errorBody
	if parseErr != nil {
		return e, parseErr
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(normalized, &envelope); err != nil {
		return e, err
	}
	inner, ok := envelope["error"]
	if !ok {
		return e, errors.New("response has no error key")
	}
	if err := json.Unmarshal(inner, &e); err != nil {
		return e, err
	}
	return e, nil
}

// unmarshalPayload decodes normalized payload bytes into the typed
// record. A shape mismatch is a malformed success and surfaces as a
// DeserializationError, never as a zero-valued record.
func unmarshalPayload(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &DeserializationError{Body: string(payload), Field: typeErr.Field, Err: err}
		}
		return &DeserializationError{Body: string(payload), Err: err}
	}
	if m, ok := v.(missingFielder); ok {
		if field := m.missingField(); field != "" {
			return &DeserializationError{Body: string(payload), Field: field}
		}
	}
	return nil
}

// missingFielder lets a record report a required field its payload
// left empty. Records whose identity the API always populates
// implement it for their id.
type missingFielder interface {
	missingField() string
}
