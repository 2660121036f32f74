package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

func TestNotify_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/notify" {
			t.Fatalf("path = %s, want /api/notify", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Fatalf("X-API-Key = %q, want secret", got)
		}

		var req notifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.ChatID != "12345" || req.Message != "hello" {
			t.Fatalf("unexpected request: %+v", req)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	client := NewClient(ts.URL+"/", WithAPIKey("secret"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.Notify(ctx, "12345", "hello"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
}

func TestNotify_NoAPIKeyHeaderWhenUnset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Api-Key"]; ok {
			t.Fatalf("unexpected X-API-Key header")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if err := NewClient(ts.URL).Notify(context.Background(), "1", "m"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
}

func TestNotify_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	err := NewClient(ts.URL).Notify(context.Background(), "1", "m")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestNotify_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	err := NewClient(url).Notify(context.Background(), "1", "m")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestNotify_NotConfigured(t *testing.T) {
	if err := NewClient("").Notify(context.Background(), "1", "m"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	var c *Client
	if err := c.Notify(context.Background(), "1", "m"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for nil client, got %v", err)
	}
}

func TestSendBroadcast(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req["title"] != "Aksiya" || req["message"] != "Bugun chegirma" || req["secretKey"] != "s3" {
			t.Fatalf("unexpected body: %v", req)
		}
		if req["imageUrl"] != "https://img/1.png" {
			t.Fatalf("imageUrl = %q", req["imageUrl"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient("", WithBroadcast(ts.URL, "s3"))

	err := client.SendBroadcast(context.Background(), Broadcast{
		Title:    "Aksiya",
		Message:  "Bugun chegirma",
		ImageURL: "https://img/1.png",
	})
	if err != nil {
		t.Fatalf("SendBroadcast error: %v", err)
	}
}

func TestSendBroadcast_Non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	err := NewClient("", WithBroadcast(ts.URL, "")).SendBroadcast(context.Background(), Broadcast{Title: "t", Message: "m"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestStatusMessage(t *testing.T) {
	id := "3f2b8c1e-4a5d-4e6f-8a9b-0c1d2e3f4a5b"

	msg, ok := StatusMessage(model.OrderStatusAccepted, id)
	if !ok {
		t.Fatalf("expected message for accepted")
	}
	if !strings.Contains(msg, "#3f4a5b") {
		t.Fatalf("message %q does not contain short ref", msg)
	}

	for _, st := range []model.OrderStatus{model.OrderStatusDenied, model.OrderStatusReady, model.OrderStatusCompleted} {
		if _, ok := StatusMessage(st, id); !ok {
			t.Fatalf("expected message for %s", st)
		}
	}

	for _, st := range []model.OrderStatus{model.OrderStatusPending, model.OrderStatusDelivered, model.OrderStatusCancelled} {
		if _, ok := StatusMessage(st, id); ok {
			t.Fatalf("unexpected message for %s", st)
		}
	}
}

func TestShortRef(t *testing.T) {
	if got := ShortRef("abc"); got != "#abc" {
		t.Fatalf("ShortRef = %q, want #abc", got)
	}
	if got := ShortRef("0123456789"); got != "#456789" {
		t.Fatalf("ShortRef = %q, want #456789", got)
	}
}
