package paystream

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const invoiceItemsPath = "/invoiceitems"

// InvoiceItem is a one-off amount queued onto the customer's next
// invoice.
type InvoiceItem struct {
	ID          string            `json:"id"`
	Object      string            `json:"object"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Customer    string            `json:"customer"`
	Date        int64             `json:"date"`
	Livemode    bool              `json:"livemode"`
	Proration   bool              `json:"proration"`
	Description *string           `json:"description"`
	Invoice     *string           `json:"invoice"`
	Metadata    map[string]string `json:"metadata"`
}

// DateTime returns Date as a time.Time.
func (i *InvoiceItem) DateTime() time.Time {
	return time.Unix(i.Date, 0)
}

func (i *InvoiceItem) missingField() string {
	if i.ID == "" {
		return "id"
	}
	return ""
}

// InvoiceItemList is one page of invoice items.
type InvoiceItemList struct {
	Object string        `json:"object"`
	Count  int           `json:"count"`
	Data   []InvoiceItem `json:"data"`
	URL    string        `json:"url"`
}

// Create queues an amount onto the customer's next invoice. params
// carries customer, amount, and currency, plus an optional
// description.
func (s InvoiceItemsService) Create(ctx context.Context, params Params) (*InvoiceItem, error) {
	return createInvoiceItem(ctx, s, params)
}

func createInvoiceItem(ctx context.Context, b backend, params Params) (*InvoiceItem, error) {
	var item InvoiceItem
	if err := b.call(ctx, http.MethodPost, invoiceItemsPath, params, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Retrieve fetches an invoice item by ID.
func (s InvoiceItemsService) Retrieve(ctx context.Context, id string) (*InvoiceItem, error) {
	return retrieveInvoiceItem(ctx, s, id)
}

func retrieveInvoiceItem(ctx context.Context, b backend, id string) (*InvoiceItem, error) {
	var item InvoiceItem
	if err := b.call(ctx, http.MethodGet, invoiceItemsPath+"/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update changes an invoice item that has not been invoiced yet and
// returns the new record.
func (s InvoiceItemsService) Update(ctx context.Context, id string, params Params) (*InvoiceItem, error) {
	return updateInvoiceItem(ctx, s, id, params)
}

func updateInvoiceItem(ctx context.Context, b backend, id string, params Params) (*InvoiceItem, error) {
	var item InvoiceItem
	if err := b.call(ctx, http.MethodPost, invoiceItemsPath+"/"+url.PathEscape(id), params, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes an invoice item that has not been invoiced yet.
func (s InvoiceItemsService) Delete(ctx context.Context, id string) (*Deleted, error) {
	return deleteInvoiceItem(ctx, s, id)
}

func deleteInvoiceItem(ctx context.Context, b backend, id string) (*Deleted, error) {
	var deleted Deleted
	if err := b.call(ctx, http.MethodDelete, invoiceItemsPath+"/"+url.PathEscape(id), nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// List pages through invoice items. params may carry count, offset,
// and a customer filter; nil lists with the API defaults.
func (s InvoiceItemsService) List(ctx context.Context, params Params) (*InvoiceItemList, error) {
	return listInvoiceItems(ctx, s, params)
}

func listInvoiceItems(ctx context.Context, b backend, params Params) (*InvoiceItemList, error) {
	var list InvoiceItemList
	if err := b.call(ctx, http.MethodGet, invoiceItemsPath, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
