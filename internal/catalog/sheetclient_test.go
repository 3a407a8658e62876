package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"supplier-routing-service/internal/models"
)

func TestSheetClient_Fetch(t *testing.T) {
	rows, err := EncodeRows([]models.Supplier{testSupplier()})
	if err != nil {
		t.Fatalf("Unexpected encode error: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Error("Expected Accept header")
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer server.Close()

	client, err := NewSheetClient(server.URL)
	if err != nil {
		t.Fatalf("Unexpected client error: %v", err)
	}

	suppliers, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Unexpected fetch error: %v", err)
	}

	if len(suppliers) != 1 || suppliers[0].Name != "Union" {
		t.Errorf("Unexpected suppliers: %+v", suppliers)
	}
}

func TestSheetClient_Push(t *testing.T) {
	var received struct {
		Data []SheetRow `json:"data"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("Expected Content-Type header")
		}

		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("Request body is not a data envelope: %v", err)
		}

		w.Write([]byte(`{"created": 2}`))
	}))
	defer server.Close()

	client, err := NewSheetClient(server.URL)
	if err != nil {
		t.Fatalf("Unexpected client error: %v", err)
	}

	if err := client.Push(context.Background(), []models.Supplier{testSupplier()}); err != nil {
		t.Fatalf("Unexpected push error: %v", err)
	}

	if len(received.Data) != 2 {
		t.Errorf("Expected 2 rows in envelope, got %d", len(received.Data))
	}
}

func TestSheetClient_Delete(t *testing.T) {
	var requestedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		requestedPath = r.URL.EscapedPath()
		w.Write([]byte(`{"deleted": 1}`))
	}))
	defer server.Close()

	client, err := NewSheetClient(server.URL)
	if err != nil {
		t.Fatalf("Unexpected client error: %v", err)
	}

	if err := client.Delete(context.Background(), "Union Pay"); err != nil {
		t.Fatalf("Unexpected delete error: %v", err)
	}

	if requestedPath != "/supplier_name/Union%20Pay" {
		t.Errorf("Unexpected delete path: %s", requestedPath)
	}
}

func TestSheetClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewSheetClient(server.URL)
	if err != nil {
		t.Fatalf("Unexpected client error: %v", err)
	}

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Expected error for HTTP 500")
	}
}

func TestSheetClient_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewSheetClient(server.URL)
	if err != nil {
		t.Fatalf("Unexpected client error: %v", err)
	}

	if err := client.Push(context.Background(), []models.Supplier{testSupplier()}); err == nil {
		t.Fatal("Expected error for HTTP 400")
	}
}

func TestSheetClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client, err := NewSheetClient(server.URL)
	if err != nil {
		t.Fatalf("Unexpected client error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Fetch(ctx); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestNewSheetClient_InvalidURL(t *testing.T) {
	if _, err := NewSheetClient("not a url"); err == nil {
		t.Fatal("Expected error for invalid URL")
	}
}
