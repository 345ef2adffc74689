package paystream

import (
	"context"
	"net/http"
	"time"
)

const balancePath = "/balance"

// Balance is the account's funds by currency, split into amounts
// available for transfer and amounts still pending.
type Balance struct {
	Object    string          `json:"object"`
	Livemode  bool            `json:"livemode"`
	Available []BalanceAmount `json:"available"`
	Pending   []BalanceAmount `json:"pending"`
}

// BalanceAmount is an amount in one currency, in its smallest unit.
type BalanceAmount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// BalanceTransaction is one movement of funds through the account's
// balance: a charge, a refund, a fee, or a transfer.
type BalanceTransaction struct {
	ID          string      `json:"id"`
	Object      string      `json:"object"`
	Amount      int64       `json:"amount"`
	Currency    string      `json:"currency"`
	Net         int64       `json:"net"`
	Fee         int64       `json:"fee"`
	FeeDetails  []FeeDetail `json:"feeDetails"`
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Created     int64       `json:"created"`
	AvailableOn int64       `json:"availableOn"`
	Source      string      `json:"source"`
	Description *string     `json:"description"`
}

// CreatedTime returns Created as a time.Time.
func (t *BalanceTransaction) CreatedTime() time.Time {
	return time.Unix(t.Created, 0)
}

// AvailableOnTime returns AvailableOn as a time.Time.
func (t *BalanceTransaction) AvailableOnTime() time.Time {
	return time.Unix(t.AvailableOn, 0)
}

// FeeDetail is one component of a transaction's fee.
type FeeDetail struct {
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Type        string  `json:"type"`
	Application *string `json:"application"`
	Description *string `json:"description"`
}

// BalanceTransactionList is one page of balance transactions.
type BalanceTransactionList struct {
	Object string               `json:"object"`
	Count  int                  `json:"count"`
	Data   []BalanceTransaction `json:"data"`
	URL    string               `json:"url"`
}

// Retrieve fetches the current balance of the client's account. The
// balance is addressed by the credential, so there is no ID argument.
func (s BalanceService) Retrieve(ctx context.Context) (*Balance, error) {
	return retrieveBalance(ctx, s)
}

func retrieveBalance(ctx context.Context, b backend) (*Balance, error) {
	var balance Balance
	if err := b.call(ctx, http.MethodGet, balancePath, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// History pages through the transactions behind the balance. params
// may carry count, offset, and type filters; nil lists with the API
// defaults.
func (s BalanceService) History(ctx context.Context, params Params) (*BalanceTransactionList, error) {
	return balanceHistory(ctx, s, params)
}

func balanceHistory(ctx context.Context, b backend, params Params) (*BalanceTransactionList, error) {
	var list BalanceTransactionList
	if err := b.call(ctx, http.MethodGet, balancePath+"/history", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
