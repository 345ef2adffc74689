package paystream

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const invoicesPath = "/invoices"

// Invoice is the statement a subscription period or pending invoice
// items roll up into. Upcoming invoices are previews and carry no ID.
type Invoice struct {
	ID                 *string         `json:"id"`
	Object             string          `json:"object"`
	Date               int64           `json:"date"`
	Customer           string          `json:"customer"`
	Subtotal           int64           `json:"subtotal"`
	Total              int64           `json:"total"`
	AmountDue          int64           `json:"amountDue"`
	StartingBalance    int64           `json:"startingBalance"`
	EndingBalance      *int64          `json:"endingBalance"`
	AttemptCount       int64           `json:"attemptCount"`
	Attempted          bool            `json:"attempted"`
	Closed             bool            `json:"closed"`
	Paid               bool            `json:"paid"`
	Livemode           bool            `json:"livemode"`
	PeriodStart        int64           `json:"periodStart"`
	PeriodEnd          int64           `json:"periodEnd"`
	Charge             *string         `json:"charge"`
	Discount           *Discount       `json:"discount"`
	Lines              InvoiceLineList `json:"lines"`
	NextPaymentAttempt *int64          `json:"nextPaymentAttempt"`
}

// DateTime returns Date as a time.Time.
func (i *Invoice) DateTime() time.Time {
	return time.Unix(i.Date, 0)
}

// InvoiceLine is one line of an invoice: a subscription period, an
// invoice item, or a proration.
type InvoiceLine struct {
	ID          string            `json:"id"`
	Object      string            `json:"object"`
	Type        string            `json:"type"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Proration   bool              `json:"proration"`
	Quantity    *int64            `json:"quantity"`
	Plan        *Plan             `json:"plan"`
	Period      *Period           `json:"period"`
	Description *string           `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// Period is the time span an invoice line covers.
type Period struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// InvoiceLineList is the collection of lines on one invoice.
type InvoiceLineList struct {
	Object string        `json:"object"`
	Count  int           `json:"count"`
	Data   []InvoiceLine `json:"data"`
	URL    string        `json:"url"`
}

// InvoiceList is one page of invoices.
type InvoiceList struct {
	Object string    `json:"object"`
	Count  int       `json:"count"`
	Data   []Invoice `json:"data"`
	URL    string    `json:"url"`
}

// Retrieve fetches an invoice by ID.
func (s InvoicesService) Retrieve(ctx context.Context, id string) (*Invoice, error) {
	return retrieveInvoice(ctx, s, id)
}

func retrieveInvoice(ctx context.Context, b backend, id string) (*Invoice, error) {
	var invoice Invoice
	if err := b.call(ctx, http.MethodGet, invoicesPath+"/"+url.PathEscape(id), nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// List pages through invoices. params may carry count, offset, and a
// customer filter; nil lists with the API defaults.
func (s InvoicesService) List(ctx context.Context, params Params) (*InvoiceList, error) {
	return listInvoices(ctx, s, params)
}

func listInvoices(ctx context.Context, b backend, params Params) (*InvoiceList, error) {
	var list InvoiceList
	if err := b.call(ctx, http.MethodGet, invoicesPath, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Upcoming previews the customer's next invoice as it stands now. The
// preview has no ID; it does not exist until the period closes.
func (s InvoicesService) Upcoming(ctx context.Context, customerID string) (*Invoice, error) {
	return upcomingInvoice(ctx, s, customerID)
}

func upcomingInvoice(ctx context.Context, b backend, customerID string) (*Invoice, error) {
	var invoice Invoice
	params := Params{"customer": customerID}
	if err := b.call(ctx, http.MethodGet, invoicesPath+"/upcoming", params, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}
