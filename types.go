package paystream

import (
	"time"

	"github.com/paystream/paystream-go/form"
)

// Params holds the parameters of one operation, for example
// Params{"amount": 2000, "currency": "usd"}. Nested maps flatten into
// bracketed form keys and nil values drop out entirely; see the form
// package for the encoding rules. Keys use the API's wire spelling
// (snake_case), since only responses are renamed.
type Params = form.Values

// Card is the sanitized card record embedded in charges, tokens, and
// customers. Only the last four digits of the number survive.
type Card struct {
	ID           string  `json:"id"`
	Object       string  `json:"object"`
	Last4        string  `json:"last4"`
	Type         string  `json:"type"`
	ExpMonth     int     `json:"expMonth"`
	ExpYear      int     `json:"expYear"`
	Fingerprint  string  `json:"fingerprint"`
	Country      string  `json:"country"`
	Name         *string `json:"name"`
	AddressLine1 *string `json:"addressLine1"`
	AddressZip   *string `json:"addressZip"`
	CVCCheck     *string `json:"cvcCheck"`
}

// Deleted confirms a delete operation.
type Deleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

func (d *Deleted) missingField() string {
	if d.ID == "" {
		return "id"
	}
	return ""
}

// Discount is an active coupon applied to a customer or invoice.
type Discount struct {
	Object   string  `json:"object"`
	Coupon   *Coupon `json:"coupon"`
	Customer string  `json:"customer"`
	Start    int64   `json:"start"`
	End      *int64  `json:"end"`
}

// StartTime returns Start as a time.Time.
func (d *Discount) StartTime() time.Time {
	return time.Unix(d.Start, 0)
}
