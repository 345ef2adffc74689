package paystreamtest

// Wire records mirror the API's snake_case JSON exactly; normalizing
// field names is the client's job, not the server's.

type wireCard struct {
	ID          string `json:"id"`
	Object      string `json:"object"`
	Last4       string `json:"last4"`
	Type        string `json:"type"`
	ExpMonth    int    `json:"exp_month"`
	ExpYear     int    `json:"exp_year"`
	Fingerprint string `json:"fingerprint"`
	Country     string `json:"country"`
	Name        string `json:"name,omitempty"`

	// number is kept to recognize test card numbers at charge time; it
	// never serializes.
	number string
}

type wireCharge struct {
	ID             string            `json:"id"`
	Object         string            `json:"object"`
	Amount         int64             `json:"amount"`
	AmountRefunded int64             `json:"amount_refunded"`
	Currency       string            `json:"currency"`
	Created        int64             `json:"created"`
	Livemode       bool              `json:"livemode"`
	Paid           bool              `json:"paid"`
	Refunded       bool              `json:"refunded"`
	Captured       bool              `json:"captured"`
	Fee            int64             `json:"fee"`
	Card           *wireCard         `json:"card"`
	Customer       string            `json:"customer,omitempty"`
	Description    string            `json:"description,omitempty"`
	FailureMessage string            `json:"failure_message,omitempty"`
	FailureCode    string            `json:"failure_code,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type wireCustomer struct {
	ID             string            `json:"id"`
	Object         string            `json:"object"`
	Created        int64             `json:"created"`
	Livemode       bool              `json:"livemode"`
	Delinquent     bool              `json:"delinquent"`
	AccountBalance int64             `json:"account_balance"`
	Description    string            `json:"description,omitempty"`
	Email          string            `json:"email,omitempty"`
	ActiveCard     *wireCard         `json:"active_card,omitempty"`
	Subscription   *wireSubscription `json:"subscription,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type wireSubscription struct {
	Object             string    `json:"object"`
	Customer           string    `json:"customer"`
	Status             string    `json:"status"`
	Plan               *wirePlan `json:"plan"`
	Start              int64     `json:"start"`
	CurrentPeriodStart int64     `json:"current_period_start"`
	CurrentPeriodEnd   int64     `json:"current_period_end"`
	Quantity           int64     `json:"quantity"`
	CanceledAt         int64     `json:"canceled_at,omitempty"`
	EndedAt            int64     `json:"ended_at,omitempty"`
}

type wirePlan struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Interval      string `json:"interval"`
	IntervalCount int64  `json:"interval_count"`
	Name          string `json:"name"`
	Livemode      bool   `json:"livemode"`
}

type wireToken struct {
	ID       string    `json:"id"`
	Object   string    `json:"object"`
	Created  int64     `json:"created"`
	Livemode bool      `json:"livemode"`
	Used     bool      `json:"used"`
	Card     *wireCard `json:"card"`
}

type wireAccount struct {
	ID                  string   `json:"id"`
	Object              string   `json:"object"`
	Email               string   `json:"email"`
	StatementDescriptor string   `json:"statement_descriptor"`
	DetailsSubmitted    bool     `json:"details_submitted"`
	ChargeEnabled       bool     `json:"charge_enabled"`
	TransferEnabled     bool     `json:"transfer_enabled"`
	CurrenciesSupported []string `json:"currencies_supported"`
}

type wireBalanceAmount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type wireBalanceTransaction struct {
	ID          string `json:"id"`
	Object      string `json:"object"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Net         int64  `json:"net"`
	Fee         int64  `json:"fee"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Created     int64  `json:"created"`
	AvailableOn int64  `json:"available_on"`
	Source      string `json:"source"`
}

type wireDeleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// wireList is the collection envelope. Count is the total number of
// matching records, not the page size.
type wireList struct {
	Object string `json:"object"`
	Count  int    `json:"count"`
	Data   any    `json:"data"`
	URL    string `json:"url"`
}
