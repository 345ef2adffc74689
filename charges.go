package paystream

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const chargesPath = "/charges"

// Charge is one attempt to move money from a card or customer.
type Charge struct {
	ID             string            `json:"id"`
	Object         string            `json:"object"`
	Amount         int64             `json:"amount"`
	AmountRefunded int64             `json:"amountRefunded"`
	Currency       string            `json:"currency"`
	Created        int64             `json:"created"`
	Livemode       bool              `json:"livemode"`
	Paid           bool              `json:"paid"`
	Refunded       bool              `json:"refunded"`
	Captured       bool              `json:"captured"`
	Fee            int64             `json:"fee"`
	Card           *Card             `json:"card"`
	Customer       *string           `json:"customer"`
	Invoice        *string           `json:"invoice"`
	Description    *string           `json:"description"`
	FailureMessage *string           `json:"failureMessage"`
	FailureCode    *string           `json:"failureCode"`
	Metadata       map[string]string `json:"metadata"`
}

// CreatedTime returns Created as a time.Time.
func (c *Charge) CreatedTime() time.Time {
	return time.Unix(c.Created, 0)
}

func (c *Charge) missingField() string {
	if c.ID == "" {
		return "id"
	}
	return ""
}

// ChargeList is one page of charges.
type ChargeList struct {
	Object string   `json:"object"`
	Count  int      `json:"count"`
	Data   []Charge `json:"data"`
	URL    string   `json:"url"`
}

// Create makes a new charge. params carries the amount, currency, and
// a card, token, or customer to charge.
func (s ChargesService) Create(ctx context.Context, params Params) (*Charge, error) {
	return createCharge(ctx, s, params)
}

func createCharge(ctx context.Context, b backend, params Params) (*Charge, error) {
	var charge Charge
	if err := b.call(ctx, http.MethodPost, chargesPath, params, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

// Retrieve fetches a charge by ID.
func (s ChargesService) Retrieve(ctx context.Context, id string) (*Charge, error) {
	return retrieveCharge(ctx, s, id)
}

func retrieveCharge(ctx context.Context, b backend, id string) (*Charge, error) {
	var charge Charge
	if err := b.call(ctx, http.MethodGet, chargesPath+"/"+url.PathEscape(id), nil, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

// List pages through charges. params may carry count, offset, and
// customer filters; nil lists with the API defaults.
func (s ChargesService) List(ctx context.Context, params Params) (*ChargeList, error) {
	return listCharges(ctx, s, params)
}

func listCharges(ctx context.Context, b backend, params Params) (*ChargeList, error) {
	var list ChargeList
	if err := b.call(ctx, http.MethodGet, chargesPath, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Refund reverses a charge and returns its updated record. params may
// carry an amount (in the smallest currency unit) to refund part of
// the charge; nil refunds the remainder.
func (s ChargesService) Refund(ctx context.Context, id string, params Params) (*Charge, error) {
	return refundCharge(ctx, s, id, params)
}

func refundCharge(ctx context.Context, b backend, id string, params Params) (*Charge, error) {
	var charge Charge
	if err := b.call(ctx, http.MethodPost, chargesPath+"/"+url.PathEscape(id)+"/refund", params, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}
