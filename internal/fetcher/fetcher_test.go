package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFetchPageSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := New(Options{Timeout: time.Second, UserAgent: "test-agent/1.0"}, zerolog.Nop())

	html, err := c.FetchPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("successful GET should not error: %v", err)
	}
	if !strings.Contains(html, "ok") {
		t.Fatalf("unexpected body %q", html)
	}
	if gotUA != "test-agent/1.0" {
		t.Fatalf("user agent not sent, got %q", gotUA)
	}
}

func TestFetchPageNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(Options{Timeout: time.Second}, zerolog.Nop())

	_, err := c.FetchPage(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("HTTP 403 should be an error")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", fetchErr.StatusCode)
	}
}

func TestFetchPageTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Options{Timeout: time.Second}, zerolog.Nop())

	_, err := c.FetchPage(context.Background(), url)
	if err == nil {
		t.Fatal("connection refused should be an error")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
}

func TestFetchErrorDiagnosticTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer srv.Close()

	c := New(Options{Timeout: time.Second}, zerolog.Nop())

	_, err := c.FetchPage(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if len([]rune(fetchErr.Diagnostic)) > maxDiagnosticRunes {
		t.Fatalf("diagnostic not truncated: %d runes", len([]rune(fetchErr.Diagnostic)))
	}
}
