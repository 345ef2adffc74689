package paystream

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Subscription ties a customer to a plan. A customer has at most one,
// addressed through the customer rather than by its own ID.
type Subscription struct {
	Object             string `json:"object"`
	Customer           string `json:"customer"`
	Status             string `json:"status"`
	Plan               *Plan  `json:"plan"`
	Start              int64  `json:"start"`
	CurrentPeriodStart int64  `json:"currentPeriodStart"`
	CurrentPeriodEnd   int64  `json:"currentPeriodEnd"`
	Quantity           int64  `json:"quantity"`
	CancelAtPeriodEnd  bool   `json:"cancelAtPeriodEnd"`
	TrialStart         *int64 `json:"trialStart"`
	TrialEnd           *int64 `json:"trialEnd"`
	CanceledAt         *int64 `json:"canceledAt"`
	EndedAt            *int64 `json:"endedAt"`
}

// StartTime returns Start as a time.Time.
func (s *Subscription) StartTime() time.Time {
	return time.Unix(s.Start, 0)
}

// UpdateSubscription subscribes the customer to the plan named in
// params, replacing any subscription they already have, and returns
// the new subscription.
func (s CustomersService) UpdateSubscription(ctx context.Context, customerID string, params Params) (*Subscription, error) {
	return updateSubscription(ctx, s, customerID, params)
}

func updateSubscription(ctx context.Context, b backend, customerID string, params Params) (*Subscription, error) {
	var sub Subscription
	path := customersPath + "/" + url.PathEscape(customerID) + "/subscription"
	if err := b.call(ctx, http.MethodPost, path, params, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription ends the customer's subscription immediately and
// returns its final record.
func (s CustomersService) CancelSubscription(ctx context.Context, customerID string) (*Subscription, error) {
	return cancelSubscription(ctx, s, customerID)
}

func cancelSubscription(ctx context.Context, b backend, customerID string) (*Subscription, error) {
	var sub Subscription
	path := customersPath + "/" + url.PathEscape(customerID) + "/subscription"
	if err := b.call(ctx, http.MethodDelete, path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
