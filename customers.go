package paystream

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const customersPath = "/customers"

// Customer is a saved payer a card can be attached to and charges and
// subscriptions run against.
type Customer struct {
	ID             string            `json:"id"`
	Object         string            `json:"object"`
	Created        int64             `json:"created"`
	Livemode       bool              `json:"livemode"`
	Delinquent     bool              `json:"delinquent"`
	AccountBalance int64             `json:"accountBalance"`
	Description    *string           `json:"description"`
	Email          *string           `json:"email"`
	ActiveCard     *Card             `json:"activeCard"`
	Subscription   *Subscription     `json:"subscription"`
	Discount       *Discount         `json:"discount"`
	Metadata       map[string]string `json:"metadata"`
}

// CreatedTime returns Created as a time.Time.
func (c *Customer) CreatedTime() time.Time {
	return time.Unix(c.Created, 0)
}

func (c *Customer) missingField() string {
	if c.ID == "" {
		return "id"
	}
	return ""
}

// CustomerList is one page of customers.
type CustomerList struct {
	Object string     `json:"object"`
	Count  int        `json:"count"`
	Data   []Customer `json:"data"`
	URL    string     `json:"url"`
}

// Create makes a new customer. params may carry a card, an email, a
// description, a plan to subscribe to, and a coupon.
func (s CustomersService) Create(ctx context.Context, params Params) (*Customer, error) {
	return createCustomer(ctx, s, params)
}

func createCustomer(ctx context.Context, b backend, params Params) (*Customer, error) {
	var customer Customer
	if err := b.call(ctx, http.MethodPost, customersPath, params, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Retrieve fetches a customer by ID.
func (s CustomersService) Retrieve(ctx context.Context, id string) (*Customer, error) {
	return retrieveCustomer(ctx, s, id)
}

func retrieveCustomer(ctx context.Context, b backend, id string) (*Customer, error) {
	var customer Customer
	if err := b.call(ctx, http.MethodGet, customersPath+"/"+url.PathEscape(id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update changes a customer and returns the new record. The stored
// customer is replaced field by field; records already in hand are
// never mutated.
func (s CustomersService) Update(ctx context.Context, id string, params Params) (*Customer, error) {
	return updateCustomer(ctx, s, id, params)
}

func updateCustomer(ctx context.Context, b backend, id string, params Params) (*Customer, error) {
	var customer Customer
	if err := b.call(ctx, http.MethodPost, customersPath+"/"+url.PathEscape(id), params, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Delete removes a customer permanently.
func (s CustomersService) Delete(ctx context.Context, id string) (*Deleted, error) {
	return deleteCustomer(ctx, s, id)
}

func deleteCustomer(ctx context.Context, b backend, id string) (*Deleted, error) {
	var deleted Deleted
	if err := b.call(ctx, http.MethodDelete, customersPath+"/"+url.PathEscape(id), nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// List pages through customers. params may carry count and offset;
// nil lists with the API defaults.
func (s CustomersService) List(ctx context.Context, params Params) (*CustomerList, error) {
	return listCustomers(ctx, s, params)
}

func listCustomers(ctx context.Context, b backend, params Params) (*CustomerList, error) {
	var list CustomerList
	if err := b.call(ctx, http.MethodGet, customersPath, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
