package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(`{"book": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := Read(context.Background(), path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"book": {}}` {
		t.Errorf("got %q", data)
	}
}

func TestReadFileSizeCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.json")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 100)), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(context.Background(), path, Options{MaxBytes: 10}); err == nil {
		t.Fatal("expected size cap error")
	}
}

func TestReadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chapters": []}`))
	}))
	defer srv.Close()

	data, err := Read(context.Background(), srv.URL, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"chapters": []}` {
		t.Errorf("got %q", data)
	}
}

func TestReadURLRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	data, err := Read(context.Background(), srv.URL, Options{Attempts: 3})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{}` {
		t.Errorf("got %q", data)
	}
	if calls.Load() != 3 {
		t.Errorf("calls: got %d, want 3", calls.Load())
	}
}

func TestReadURLDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := Read(context.Background(), srv.URL, Options{Attempts: 5}); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("calls: got %d, want 1 (no retries on 4xx)", calls.Load())
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		source   string
		expected bool
	}{
		{"https://example.com/manifest.json", true},
		{"http://localhost:8080/m.json", true},
		{"manifest.json", false},
		{"/abs/path/manifest.json", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.source); got != tt.expected {
			t.Errorf("IsURL(%q): got %v, want %v", tt.source, got, tt.expected)
		}
	}
}
