package paystream

import (
	"context"
	"net/http"
	"net/url"
)

const plansPath = "/plans"

// Plan is a recurring price subscriptions bill against.
type Plan struct {
	ID              string `json:"id"`
	Object          string `json:"object"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Interval        string `json:"interval"`
	IntervalCount   int64  `json:"intervalCount"`
	Name            string `json:"name"`
	Livemode        bool   `json:"livemode"`
	TrialPeriodDays *int64 `json:"trialPeriodDays"`
}

func (p *Plan) missingField() string {
	if p.ID == "" {
		return "id"
	}
	return ""
}

// PlanList is one page of plans.
type PlanList struct {
	Object string `json:"object"`
	Count  int    `json:"count"`
	Data   []Plan `json:"data"`
	URL    string `json:"url"`
}

// Create makes a new plan. Plan IDs are chosen by the caller, so
// params carries the id alongside amount, currency, interval, and
// name.
func (s PlansService) Create(ctx context.Context, params Params) (*Plan, error) {
	return createPlan(ctx, s, params)
}

func createPlan(ctx context.Context, b backend, params Params) (*Plan, error) {
	var plan Plan
	if err := b.call(ctx, http.MethodPost, plansPath, params, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Retrieve fetches a plan by ID.
func (s PlansService) Retrieve(ctx context.Context, id string) (*Plan, error) {
	return retrievePlan(ctx, s, id)
}

func retrievePlan(ctx context.Context, b backend, id string) (*Plan, error) {
	var plan Plan
	if err := b.call(ctx, http.MethodGet, plansPath+"/"+url.PathEscape(id), nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update changes a plan's name (the billing terms of a plan are fixed
// once created) and returns the new record.
func (s PlansService) Update(ctx context.Context, id string, params Params) (*Plan, error) {
	return updatePlan(ctx, s, id, params)
}

func updatePlan(ctx context.Context, b backend, id string, params Params) (*Plan, error) {
	var plan Plan
	if err := b.call(ctx, http.MethodPost, plansPath+"/"+url.PathEscape(id), params, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Delete removes a plan. Subscriptions already on the plan keep
// billing against its terms.
func (s PlansService) Delete(ctx context.Context, id string) (*Deleted, error) {
	return deletePlan(ctx, s, id)
}

func deletePlan(ctx context.Context, b backend, id string) (*Deleted, error) {
	var deleted Deleted
	if err := b.call(ctx, http.MethodDelete, plansPath+"/"+url.PathEscape(id), nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// List pages through plans. params may carry count and offset; nil
// lists with the API defaults.
func (s PlansService) List(ctx context.Context, params Params) (*PlanList, error) {
	return listPlans(ctx, s, params)
}

func listPlans(ctx context.Context, b backend, params Params) (*PlanList, error) {
	var list PlanList
	if err := b.call(ctx, http.MethodGet, plansPath, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
