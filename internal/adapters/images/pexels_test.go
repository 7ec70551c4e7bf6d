package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tender/internal/domain"
)

func TestFetchImageWithoutKeyReturnsPlaceholder(t *testing.T) {
	c := NewClient("", "", time.Second, zerolog.Nop())
	if got := c.FetchImage(context.Background(), "Louvre Visit", domain.ContentActivity); got != PlaceholderURL {
		t.Fatalf("без ключа ожидали заглушку, получили %s", got)
	}
}

func TestFetchImageReturnsFirstPhoto(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"photos": [{"src": {"large": "https://example.com/louvre.jpeg"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, time.Second, zerolog.Nop())
	got := c.FetchImage(context.Background(), "Louvre Visit", domain.ContentActivity)
	if got != "https://example.com/louvre.jpeg" {
		t.Fatalf("ожидали URL первой фотографии, получили %s", got)
	}
	if gotAuth != "test-key" {
		t.Fatalf("ожидали ключ в заголовке Authorization, получили %q", gotAuth)
	}
	if gotQuery != "Louvre Visit activity travel" {
		t.Fatalf("получили неожиданный поисковый запрос %q", gotQuery)
	}
}

func TestFetchImageDegradesOnEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"photos": []}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, time.Second, zerolog.Nop())
	if got := c.FetchImage(context.Background(), "Nowhere", domain.ContentDish); got != PlaceholderURL {
		t.Fatalf("на пустую выдачу ожидали заглушку, получили %s", got)
	}
}

func TestFetchImageDegradesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, time.Second, zerolog.Nop())
	if got := c.FetchImage(context.Background(), "Louvre Visit", domain.ContentActivity); got != PlaceholderURL {
		t.Fatalf("на ошибку сервера ожидали заглушку, получили %s", got)
	}
}
