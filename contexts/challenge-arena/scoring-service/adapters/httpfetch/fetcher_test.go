package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeLocation(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://pastebin.com/abc123", "https://pastebin.com/raw/abc123"},
		{"https://pastebin.com/abc123/", "https://pastebin.com/raw/abc123"},
		{"https://pastebin.com/raw/abc123", "https://pastebin.com/raw/abc123"},
		{"https://gist.example.com/snippet.txt", "https://gist.example.com/snippet.txt"},
	}
	for _, tc := range cases {
		if got := normalizeLocation(tc.in); got != tc.want {
			t.Fatalf("normalizeLocation(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFetchCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("print('hello')"))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	ctx := context.Background()

	code, err := fetcher.FetchCode(ctx, server.URL+"/solution.py")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if code != "print('hello')" {
		t.Fatalf("unexpected code body: %q", code)
	}

	if _, err := fetcher.FetchCode(ctx, server.URL+"/missing"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}
