package sanity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/akdamba/portal-backend/internal/pkg/logger"
)

func testClient(t *testing.T, baseURL string, maxRetries int) Client {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	c, err := New(log, Config{ProjectID: "testproj", MaxRetries: maxRetries})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	BaseURLOverride(c, baseURL)
	return c
}

func TestQueryEncodesParamsAndDecodesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("query"); got != VidensbaseTopicQuery {
			t.Errorf("query param = %q", got)
		}
		// Params travel JSON-encoded under $name.
		if got := q.Get("$slug"); got != `"andele"` {
			t.Errorf("$slug param = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("accept header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"_id":"topic-1","title":"Andele"},"ms":4}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, 0)

	var out struct {
		ID    string `json:"_id"`
		Title string `json:"title"`
	}
	if err := c.Query(context.Background(), VidensbaseTopicQuery, map[string]interface{}{"slug": "andele"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != "topic-1" || out.Title != "Andele" {
		t.Fatalf("decoded = %+v", out)
	}
}

func TestQueryNullResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":null}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, 0)

	out := map[string]interface{}{"untouched": true}
	if err := c.Query(context.Background(), SiteSettingsQuery, nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["untouched"] != true {
		t.Fatalf("out modified on null result: %v", out)
	}
}

func TestQueryRetriesOnServerError(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"result":[]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, 2)

	var out []interface{}
	if err := c.Query(context.Background(), NewsListQuery, nil, &out); err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestQueryDoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"query parse error"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, 3)

	err := c.Query(context.Background(), "bad groq", nil, nil)
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if he.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", he.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestQueryUndecodableEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, 0)

	var out map[string]interface{}
	if err := c.Query(context.Background(), SiteSettingsQuery, nil, &out); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewRequiresProjectID(t *testing.T) {
	t.Parallel()

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if _, err := New(log, Config{}); err == nil {
		t.Fatal("expected error for missing project id")
	}
}

func TestBaseURLReflectsCDNSetting(t *testing.T) {
	t.Parallel()

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	cdn, err := New(log, Config{ProjectID: "testproj", Dataset: "production", APIVersion: "2024-01-01", UseCDN: true})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	if got := cdn.(*client).baseURL; got != "https://testproj.apicdn.sanity.io/v2024-01-01/data/query/production" {
		t.Fatalf("cdn base url = %q", got)
	}

	live, err := New(log, Config{ProjectID: "testproj", Dataset: "production", APIVersion: "2024-01-01"})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	if got := live.(*client).baseURL; got != "https://testproj.api.sanity.io/v2024-01-01/data/query/production" {
		t.Fatalf("live base url = %q", got)
	}
}
