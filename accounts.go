package paystream

import (
	"context"
	"net/http"
)

const accountPath = "/account"

// Account describes the account the API key belongs to.
type Account struct {
	ID                  string   `json:"id"`
	Object              string   `json:"object"`
	Email               *string  `json:"email"`
	StatementDescriptor *string  `json:"statementDescriptor"`
	DetailsSubmitted    bool     `json:"detailsSubmitted"`
	ChargeEnabled       bool     `json:"chargeEnabled"`
	TransferEnabled     bool     `json:"transferEnabled"`
	CurrenciesSupported []string `json:"currenciesSupported"`
}

func (a *Account) missingField() string {
	if a.ID == "" {
		return "id"
	}
	return ""
}

// Retrieve fetches the account the client's key belongs to. The
// account is addressed by the credential, so there is no ID argument.
func (s AccountService) Retrieve(ctx context.Context) (*Account, error) {
	return retrieveAccount(ctx, s)
}

func retrieveAccount(ctx context.Context, b backend) (*Account, error) {
	var account Account
	if err := b.call(ctx, http.MethodGet, accountPath, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
