package paystream

import (
	"context"
	"net/http"
	"testing"
)

func TestTokensCreate(t *testing.T) {
	b := &recordingBackend{payload: `{
		"id": "tok_1",
		"object": "token",
		"created": 1756684800,
		"used": false,
		"card": {"id": "card_1", "last4": "4242", "expMonth": 12, "expYear": 2027, "fingerprint": "fp_0a1b2c3d"}
	}`}

	params := Params{"card": map[string]any{"number": "4242424242424242", "exp_month": 12, "exp_year": 2027}}
	tok, err := createToken(context.Background(), b, params)
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}

	if b.method != http.MethodPost || b.path != "/tokens" {
		t.Errorf("Expected POST /tokens, got %s %s", b.method, b.path)
	}
	if tok.ID != "tok_1" || tok.Used {
		t.Errorf("Unexpected token %+v", tok)
	}
	if tok.Card == nil || tok.Card.Fingerprint != "fp_0a1b2c3d" {
		t.Error("Expected the card to decode")
	}
}

func TestTokensRetrieve(t *testing.T) {
	b := &recordingBackend{payload: `{"id":"tok_1","object":"token","used":true}`}

	tok, err := retrieveToken(context.Background(), b, "tok_1")
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodGet || b.path != "/tokens/tok_1" {
		t.Errorf("Expected GET /tokens/tok_1, got %s %s", b.method, b.path)
	}
	if !tok.Used {
		t.Error("Expected a used token")
	}
}
