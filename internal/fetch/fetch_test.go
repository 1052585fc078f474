package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestGetCachesResponses(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	c := New(Options{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		body, status, err := c.Get(ctx, server.URL)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if status != http.StatusOK || string(body) != "payload" {
			t.Fatalf("Get() = %q, %d", body, status)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (repeats served from cache)", got)
	}
}

func TestGetCachesNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := New(Options{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, status, err := c.Get(ctx, server.URL)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if status != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", status)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (404 probes are cached too)", got)
	}
}

func TestGetRetriesOnRateLimit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := New(Options{})
	body, status, err := c.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if status != http.StatusOK || string(body) != "ok" {
		t.Errorf("Get() = %q, %d after retry", body, status)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestGetSendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	c := New(Options{UserAgent: "tester/2.0"})
	if _, _, err := c.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if gotUA != "tester/2.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(Options{})
	status, err := c.Status(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if status != http.StatusNoContent {
		t.Errorf("Status() = %d, want 204", status)
	}
}

func TestGetTransportErrorNotCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	url := server.URL
	server.Close()

	c := New(Options{})
	if _, _, err := c.Get(context.Background(), url); err == nil {
		t.Fatal("Get() should fail against a closed server")
	}
	if _, ok := c.cache.Get(url); ok {
		t.Error("transport errors must not be cached")
	}
}
