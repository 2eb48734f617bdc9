package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsJSONWithBasicAuth(t *testing.T) {
	var got SendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s, want /messages", r.URL.Path)
		}
		user, key, ok := r.BasicAuth()
		if !ok || user != "api" || key != "secret" {
			t.Errorf("basic auth = %q/%q/%v", user, key, ok)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"id":"m-1","message":"queued"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "api", "secret", "orders@example.com")
	if err := c.Send(context.Background(), "guest@example.com", "Order Confirmation", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.From != "orders@example.com" || len(got.To) != 1 || got.To[0] != "guest@example.com" {
		t.Errorf("unexpected envelope: %+v", got)
	}
	if got.Subject != "Order Confirmation" || got.Text != "hello" {
		t.Errorf("unexpected content: %+v", got)
	}
}

func TestSendReportsRelayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mailbox unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api", "secret", "orders@example.com")
	if err := c.Send(context.Background(), "guest@example.com", "s", "b"); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
