package paystream

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const tokensPath = "/tokens"

// Token is a single-use stand-in for card details, created so card
// numbers never transit the caller's servers.
type Token struct {
	ID       string `json:"id"`
	Object   string `json:"object"`
	Created  int64  `json:"created"`
	Livemode bool   `json:"livemode"`
	Used     bool   `json:"used"`
	Card     *Card  `json:"card"`
}

// CreatedTime returns Created as a time.Time.
func (t *Token) CreatedTime() time.Time {
	return time.Unix(t.Created, 0)
}

func (t *Token) missingField() string {
	if t.ID == "" {
		return "id"
	}
	return ""
}

// Create makes a token from the card details in params.
func (s TokensService) Create(ctx context.Context, params Params) (*Token, error) {
	return createToken(ctx, s, params)
}

func createToken(ctx context.Context, b backend, params Params) (*Token, error) {
	var token Token
	if err := b.call(ctx, http.MethodPost, tokensPath, params, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Retrieve fetches a token by ID.
func (s TokensService) Retrieve(ctx context.Context, id string) (*Token, error) {
	return retrieveToken(ctx, s, id)
}

func retrieveToken(ctx context.Context, b backend, id string) (*Token, error) {
	var token Token
	if err := b.call(ctx, http.MethodGet, tokensPath+"/"+url.PathEscape(id), nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
