package sendgrid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/akdamba/portal-backend/internal/pkg/logger"
)

func testClient(t *testing.T, cfg Config) Client {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "sg-test-key"
	}
	c, err := New(log, cfg)
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	return c
}

func TestSendWireShape(t *testing.T) {
	t.Parallel()

	var wire mailSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v3/mail/send" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sg-test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("X-Message-Id", "msg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := testClient(t, Config{BaseURL: srv.URL, DefaultFromEmail: "noreply@akd.dk", DefaultFromName: "AKD"})

	res, err := c.Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "andele@akd.dk"}},
		Subject: "Ny opringningsanmodning: Andele",
		Text:    "Navn: Jens Hansen",
		HTML:    "<p>Navn: Jens Hansen</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusAccepted || res.MessageID != "msg-123" {
		t.Fatalf("result = %+v", res)
	}

	// Sender falls back to the configured default.
	if wire.From.Email != "noreply@akd.dk" || wire.From.Name != "AKD" {
		t.Fatalf("from = %+v", wire.From)
	}
	if len(wire.Personalizations) != 1 || len(wire.Personalizations[0].To) != 1 ||
		wire.Personalizations[0].To[0].Email != "andele@akd.dk" {
		t.Fatalf("personalizations = %+v", wire.Personalizations)
	}
	if wire.Subject != "Ny opringningsanmodning: Andele" {
		t.Fatalf("subject = %q", wire.Subject)
	}
	if len(wire.Content) != 2 || wire.Content[0].Type != "text/plain" || wire.Content[1].Type != "text/html" {
		t.Fatalf("content = %+v", wire.Content)
	}
}

func TestSendParsesErrorEnvelope(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"message":"The from email does not match a verified Sender Identity","field":"from.email"}]}`))
	}))
	defer srv.Close()

	c := testClient(t, Config{BaseURL: srv.URL, MaxRetries: 3})

	_, err := c.Send(context.Background(), SendEmailRequest{
		From:    EmailAddress{Email: "unverified@akd.dk"},
		To:      []EmailAddress{{Email: "andele@akd.dk"}},
		Subject: "Ny opringningsanmodning",
		Text:    "Navn: Jens Hansen",
	})
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if he.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", he.StatusCode)
	}
	if len(he.Errors) != 1 || he.Errors[0].Message == "" {
		t.Fatalf("errors = %+v", he.Errors)
	}
	// 4xx is the caller's fault; retrying would just repeat it.
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestSendRetriesOnRateLimit(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := testClient(t, Config{BaseURL: srv.URL, MaxRetries: 2})

	res, err := c.Send(context.Background(), SendEmailRequest{
		From:    EmailAddress{Email: "noreply@akd.dk"},
		To:      []EmailAddress{{Email: "andele@akd.dk"}},
		Subject: "Ny opringningsanmodning",
		Text:    "Navn: Jens Hansen",
	})
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", res.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestSendValidatesBeforeDialing(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := testClient(t, Config{BaseURL: srv.URL})

	cases := []struct {
		name string
		req  SendEmailRequest
	}{
		{"missing from", SendEmailRequest{To: []EmailAddress{{Email: "a@akd.dk"}}, Subject: "s", Text: "t"}},
		{"missing to", SendEmailRequest{From: EmailAddress{Email: "n@akd.dk"}, Subject: "s", Text: "t"}},
		{"missing subject", SendEmailRequest{From: EmailAddress{Email: "n@akd.dk"}, To: []EmailAddress{{Email: "a@akd.dk"}}, Text: "t"}},
		{"missing content", SendEmailRequest{From: EmailAddress{Email: "n@akd.dk"}, To: []EmailAddress{{Email: "a@akd.dk"}}, Subject: "s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Send(context.Background(), tc.req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("calls = %d, want 0", got)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Parallel()

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if _, err := New(log, Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
