package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ledger/consistency" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"consistent":true,"posting_sum":"0","status":"ok"}`))
	}))
	defer srv.Close()

	baseURL = srv.URL

	body, status := get("/api/v1/ledger/consistency")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(body) == 0 {
		t.Fatal("expected response body")
	}
}
