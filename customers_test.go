package paystream

import (
	"context"
	"net/http"
	"testing"
)

func TestCustomersCreate(t *testing.T) {
	b := &recordingBackend{payload: `{
		"id": "cus_1",
		"object": "customer",
		"email": "jenny@example.com",
		"activeCard": {"id": "card_1", "last4": "4242"},
		"accountBalance": 0
	}`}

	params := Params{
		"email": "jenny@example.com",
		"card":  map[string]any{"number": "4242424242424242", "exp_month": 12, "exp_year": 2027},
	}
	cus, err := createCustomer(context.Background(), b, params)
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}

	if b.method != http.MethodPost || b.path != "/customers" {
		t.Errorf("Expected POST /customers, got %s %s", b.method, b.path)
	}
	if cus.ID != "cus_1" {
		t.Errorf("Expected customer cus_1, got %q", cus.ID)
	}
	if cus.Email == nil || *cus.Email != "jenny@example.com" {
		t.Error("Expected the email to decode")
	}
	if cus.ActiveCard == nil || cus.ActiveCard.Last4 != "4242" {
		t.Error("Expected the active card to decode")
	}
}

func TestCustomersRetrieve(t *testing.T) {
	b := &recordingBackend{payload: `{"id":"cus_1","object":"customer"}`}

	_, err := retrieveCustomer(context.Background(), b, "cus_1")
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodGet || b.path != "/customers/cus_1" {
		t.Errorf("Expected GET /customers/cus_1, got %s %s", b.method, b.path)
	}
}

func TestCustomersUpdate(t *testing.T) {
	b := &recordingBackend{payload: `{"id":"cus_1","object":"customer","description":"repeat buyer"}`}

	cus, err := updateCustomer(context.Background(), b, "cus_1", Params{"description": "repeat buyer"})
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodPost || b.path != "/customers/cus_1" {
		t.Errorf("Expected POST /customers/cus_1, got %s %s", b.method, b.path)
	}
	if b.params["description"] != "repeat buyer" {
		t.Errorf("Expected params to pass through, got %v", b.params)
	}
	if cus.Description == nil || *cus.Description != "repeat buyer" {
		t.Error("Expected the description to decode")
	}
}

func TestCustomersDelete(t *testing.T) {
	b := &recordingBackend{payload: `{"id":"cus_1","object":"customer","deleted":true}`}

	del, err := deleteCustomer(context.Background(), b, "cus_1")
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodDelete || b.path != "/customers/cus_1" {
		t.Errorf("Expected DELETE /customers/cus_1, got %s %s", b.method, b.path)
	}
	if b.params != nil {
		t.Errorf("Expected no params on delete, got %v", b.params)
	}
	if !del.Deleted || del.ID != "cus_1" {
		t.Errorf("Unexpected deletion record %+v", del)
	}
}

func TestCustomersList(t *testing.T) {
	b := &recordingBackend{payload: `{
		"object": "list",
		"count": 1,
		"data": [{"id": "cus_1", "object": "customer"}],
		"url": "/v1/customers"
	}`}

	list, err := listCustomers(context.Background(), b, Params{"count": 5, "offset": 10})
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodGet || b.path != "/customers" {
		t.Errorf("Expected GET /customers, got %s %s", b.method, b.path)
	}
	if b.params["offset"] != 10 {
		t.Errorf("Expected the offset to pass through, got %v", b.params)
	}
	if list.Count != 1 || len(list.Data) != 1 {
		t.Errorf("Unexpected list %+v", list)
	}
}
