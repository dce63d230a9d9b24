package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	t.Run("downloads document body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# 遠端筆記\n\n內容"))
		}))
		defer srv.Close()

		body, err := New().Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !strings.HasPrefix(string(body), "# 遠端筆記") {
			t.Errorf("body = %q, want remote note content", body)
		}
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := New().Fetch(context.Background(), srv.URL)
		if !errors.Is(err, ErrFetchFailed) {
			t.Errorf("error = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("unsupported scheme rejected", func(t *testing.T) {
		_, err := New().Fetch(context.Background(), "ftp://example.com/notes.md")
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("error = %v, want ErrInvalidURL", err)
		}
	})

	t.Run("oversized document rejected", func(t *testing.T) {
		old := MaxDocumentSize
		MaxDocumentSize = 16
		defer func() { MaxDocumentSize = old }()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 64)))
		}))
		defer srv.Close()

		_, err := New().Fetch(context.Background(), srv.URL)
		if !errors.Is(err, ErrResponseTooLarge) {
			t.Errorf("error = %v, want ErrResponseTooLarge", err)
		}
	})
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"https://example.com/notes.md", true},
		{"http://example.com/notes.md", true},
		{"notes.md", false},
		{"/abs/path/notes.md", false},
		{"ftp://example.com/notes.md", false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.arg); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}
