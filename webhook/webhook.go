// Package webhook verifies the signatures Paystream attaches to
// webhook deliveries and decodes verified payloads into events.
//
// Verify against the raw request body, before any JSON handling:
//
//	payload, err := io.ReadAll(r.Body)
//	...
//	event, err := webhook.ConstructEvent(payload, r.Header.Get("Paystream-Signature"), secret)
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	paystream "github.com/paystream/paystream-go"
	"github.com/paystream/paystream-go/internal/wirejson"
)

// DefaultTolerance is how old a signed payload may be before
// verification rejects it.
const DefaultTolerance = 5 * time.Minute

var (
	// ErrNotSigned means the signature header was empty.
	ErrNotSigned = errors.New("webhook has no signature header")

	// ErrInvalidHeader means the signature header was not of the form
	// t=<unix>,v1=<hex>.
	ErrInvalidHeader = errors.New("webhook signature header format is invalid")

	// ErrNoValidSignature means no signature in the header matched the
	// payload under the given secret.
	ErrNoValidSignature = errors.New("webhook signature verification failed")

	// ErrTooOld means the signed timestamp fell outside the tolerance.
	ErrTooOld = errors.New("webhook timestamp is outside the allowed tolerance")
)

// ConstructEvent verifies header against payload and secret, then
// decodes the payload into the event it signs. Deliveries older than
// DefaultTolerance are rejected.
func ConstructEvent(payload []byte, header, secret string) (paystream.Event, error) {
	return ConstructEventWithTolerance(payload, header, secret, DefaultTolerance)
}

// ConstructEventWithTolerance is ConstructEvent with a caller-chosen
// staleness window. A tolerance of zero disables the age check.
func ConstructEventWithTolerance(payload []byte, header, secret string, tolerance time.Duration) (paystream.Event, error) {
	var event paystream.Event
	if err := validatePayload(payload, header, secret, tolerance); err != nil {
		return event, err
	}

	normalized, err := wirejson.Normalize(payload)
	if err != nil {
		return event, fmt.Errorf("webhook payload is not valid JSON: %w", err)
	}
	if err := json.Unmarshal(normalized, &event); err != nil {
		return event, fmt.Errorf("webhook payload could not be decoded: %w", err)
	}
	return event, nil
}

// ComputeSignature returns the hex HMAC-SHA256 of "<unix>.<payload>"
// keyed with secret. This is the v1 scheme; it is exported so tests
// and outbound integrations can produce valid headers.
func ComputeSignature(t time.Time, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", t.Unix(), payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func validatePayload(payload []byte, header, secret string, tolerance time.Duration) error {
	timestamp, signatures, err := parseHeader(header)
	if err != nil {
		return err
	}
	if tolerance > 0 && time.Since(time.Unix(timestamp, 0)) > tolerance {
		return ErrTooOld
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrNoValidSignature
}

// parseHeader splits "t=1492774577,v1=5257a86..." into the signed
// timestamp and the candidate signatures. Schemes other than v1 are
// ignored so new schemes can roll out without breaking verification.
func parseHeader(header string) (int64, [][]byte, error) {
	if header == "" {
		return 0, nil, ErrNotSigned
	}

	timestamp := int64(-1)
	var signatures [][]byte
	for _, item := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			return 0, nil, ErrInvalidHeader
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidHeader
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(v)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}
	if timestamp < 0 {
		return 0, nil, ErrInvalidHeader
	}
	if len(signatures) == 0 {
		return 0, nil, ErrNoValidSignature
	}
	return timestamp, signatures, nil
}
