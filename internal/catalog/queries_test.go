package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/louixani-inc/lx-movie-app-dev/internal/catalog/cache"
	"github.com/louixani-inc/lx-movie-app-dev/internal/tmdb"
)

func newTestQueries(t *testing.T, handler http.HandlerFunc) (*Queries, *int64) {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := tmdb.New(srv.URL, tmdb.ClientConfig{APIKey: "test-key", MaxRetries: 1})
	return NewQueries(client, cache.NewMemory(nil, ""), nil), &calls
}

func moviePageHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tmdb.MoviePage{
			Page:         1,
			TotalPages:   1,
			TotalResults: 1,
			Results:      []tmdb.Movie{{ID: 550, Title: "Fight Club"}},
		})
	}
}

func TestSearchReadsThroughCache(t *testing.T) {
	q, calls := newTestQueries(t, moviePageHandler(t))
	ctx := context.Background()

	page, err := q.Search(ctx, "fight club", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Results[0].ID != 550 {
		t.Fatalf("page = %+v", page)
	}
	if _, err := q.Search(ctx, "fight club", 1); err != nil {
		t.Fatalf("Search (cached): %v", err)
	}
	if got := atomic.LoadInt64(calls); got != 1 {
		t.Fatalf("upstream calls = %d, want 1", got)
	}

	// A different page is a different key.
	if _, err := q.Search(ctx, "fight club", 2); err != nil {
		t.Fatalf("Search page 2: %v", err)
	}
	if got := atomic.LoadInt64(calls); got != 2 {
		t.Fatalf("upstream calls = %d, want 2", got)
	}
}

func TestDetailsCachesByMovieID(t *testing.T) {
	q, calls := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tmdb.MovieDetails{
			Movie: tmdb.Movie{ID: 550, Title: "Fight Club"},
		})
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := q.Details(ctx, 550)
		if err != nil {
			t.Fatalf("Details: %v", err)
		}
		if d.Title != "Fight Club" {
			t.Fatalf("details = %+v", d)
		}
	}
	if got := atomic.LoadInt64(calls); got != 1 {
		t.Fatalf("upstream calls = %d, want 1", got)
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	q, calls := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
	})
	ctx := context.Background()

	if _, err := q.Details(ctx, 999); err == nil {
		t.Fatalf("upstream 404 not surfaced")
	}
	if _, err := q.Details(ctx, 999); err == nil {
		t.Fatalf("upstream 404 not surfaced on retry")
	}
	if got := atomic.LoadInt64(calls); got != 2 {
		t.Fatalf("upstream calls = %d, want 2 (errors must not be cached)", got)
	}
}

func TestTrendingNormalizesWindow(t *testing.T) {
	var paths []string
	q, _ := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		moviePageHandler(t)(w, r)
	})
	ctx := context.Background()

	if _, err := q.Trending(ctx, "hourly"); err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(paths) != 1 || paths[0] != "/trending/movie/week" {
		t.Fatalf("paths = %v", paths)
	}
	// "week" and the normalized bogus window share a cache key.
	if _, err := q.Trending(ctx, "week"); err != nil {
		t.Fatalf("Trending week: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("normalized window missed cache: %v", paths)
	}
}

func TestMissingKeyShortCircuits(t *testing.T) {
	q, calls := newTestQueries(t, moviePageHandler(t))
	q.TMDB.Config.APIKey = ""

	if _, err := q.Popular(context.Background(), 1); err != tmdb.ErrNotConfigured {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if got := atomic.LoadInt64(calls); got != 0 {
		t.Fatalf("network call made without an API key")
	}
}
