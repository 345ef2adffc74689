package paystream

import (
	"context"
	"net/http"
	"testing"
)

func TestInvoiceItemsCreate(t *testing.T) {
	b := &recordingBackend{payload: `{
		"id": "ii_1",
		"object": "invoiceitem",
		"customer": "cus_1",
		"amount": 350,
		"currency": "usd",
		"description": "setup fee"
	}`}

	params := Params{"customer": "cus_1", "amount": 350, "currency": "usd", "description": "setup fee"}
	item, err := createInvoiceItem(context.Background(), b, params)
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}

	if b.method != http.MethodPost || b.path != "/invoiceitems" {
		t.Errorf("Expected POST /invoiceitems, got %s %s", b.method, b.path)
	}
	if item.ID != "ii_1" || item.Amount != 350 {
		t.Errorf("Unexpected invoice item %+v", item)
	}
}

func TestInvoiceItemsRetrieve(t *testing.T) {
	b := &recordingBackend{payload: `{"id":"ii_1","object":"invoiceitem","amount":350}`}

	_, err := retrieveInvoiceItem(context.Background(), b, "ii_1")
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodGet || b.path != "/invoiceitems/ii_1" {
		t.Errorf("Expected GET /invoiceitems/ii_1, got %s %s", b.method, b.path)
	}
}

func TestInvoiceItemsUpdate(t *testing.T) {
	b := &recordingBackend{payload: `{"id":"ii_1","object":"invoiceitem","amount":500}`}

	item, err := updateInvoiceItem(context.Background(), b, "ii_1", Params{"amount": 500})
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodPost || b.path != "/invoiceitems/ii_1" {
		t.Errorf("Expected POST /invoiceitems/ii_1, got %s %s", b.method, b.path)
	}
	if item.Amount != 500 {
		t.Errorf("Expected amount 500, got %d", item.Amount)
	}
}

func TestInvoiceItemsDelete(t *testing.T) {
	b := &recordingBackend{payload: `{"id":"ii_1","object":"invoiceitem","deleted":true}`}

	del, err := deleteInvoiceItem(context.Background(), b, "ii_1")
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodDelete || b.path != "/invoiceitems/ii_1" {
		t.Errorf("Expected DELETE /invoiceitems/ii_1, got %s %s", b.method, b.path)
	}
	if !del.Deleted {
		t.Error("Expected a deletion record")
	}
}

func TestInvoiceItemsList(t *testing.T) {
	b := &recordingBackend{payload: `{
		"object": "list",
		"count": 1,
		"data": [{"id": "ii_1", "object": "invoiceitem"}],
		"url": "/v1/invoiceitems"
	}`}

	list, err := listInvoiceItems(context.Background(), b, Params{"customer": "cus_1"})
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if b.method != http.MethodGet || b.path != "/invoiceitems" {
		t.Errorf("Expected GET /invoiceitems, got %s %s", b.method, b.path)
	}
	if len(list.Data) != 1 {
		t.Errorf("Unexpected list %+v", list)
	}
}
