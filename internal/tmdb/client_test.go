package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, ClientConfig{
		APIKey:         "test-key",
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
	})
}

func TestSearchMoviesRequestShape(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode(MoviePage{Page: 1, Results: []Movie{{ID: 550}}})
	})

	page, err := c.SearchMovies(context.Background(), "fight club", 0)
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if gotPath != "/search/movie" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery["query"] != "fight club" || gotQuery["page"] != "1" {
		t.Fatalf("query = %v", gotQuery)
	}
	if gotQuery["api_key"] != "test-key" || gotQuery["language"] != "en-US" {
		t.Fatalf("auth params = %v", gotQuery)
	}
	if gotQuery["include_adult"] != "false" {
		t.Fatalf("include_adult = %q", gotQuery["include_adult"])
	}
	if page.Results[0].ID != 550 {
		t.Fatalf("page = %+v", page)
	}
}

func TestMovieDetailsAppendsRelations(t *testing.T) {
	var gotAppend string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAppend = r.URL.Query().Get("append_to_response")
		_ = json.NewEncoder(w).Encode(MovieDetails{Movie: Movie{ID: 550, Title: "Fight Club"}})
	})

	d, err := c.MovieDetails(context.Background(), 550)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	if gotAppend != "videos,credits,similar,recommendations" {
		t.Fatalf("append_to_response = %q", gotAppend)
	}
	if d.Title != "Fight Club" {
		t.Fatalf("details = %+v", d)
	}
}

func TestMissingAPIKey(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	c.Config.APIKey = ""

	if _, err := c.PopularMovies(context.Background(), 1); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if called {
		t.Fatalf("network call made without an API key")
	}
}

func TestNotFoundIsDefinitive(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"status_message":"missing"}`, http.StatusNotFound)
	})

	if _, err := c.MovieDetails(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Fatalf("404 was retried: %d calls", calls)
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(MoviePage{Page: 1})
	})

	if _, err := c.PopularMovies(context.Background(), 1); err != nil {
		t.Fatalf("PopularMovies: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetriesExhaust(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	if _, err := c.PopularMovies(context.Background(), 1); err == nil {
		t.Fatalf("exhausted retries returned nil error")
	}
}

func TestTrendingWindowNormalized(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(MoviePage{Page: 1})
	})

	if _, err := c.TrendingMovies(context.Background(), "day"); err != nil {
		t.Fatalf("TrendingMovies: %v", err)
	}
	if gotPath != "/trending/movie/day" {
		t.Fatalf("path = %q", gotPath)
	}
	if _, err := c.TrendingMovies(context.Background(), "whatever"); err != nil {
		t.Fatalf("TrendingMovies: %v", err)
	}
	if gotPath != "/trending/movie/week" {
		t.Fatalf("bogus window path = %q", gotPath)
	}
}

func TestDiscoverFilters(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode(MoviePage{Page: 1})
	})

	_, err := c.DiscoverMovies(context.Background(), DiscoverParams{
		Page:           2,
		Genre:          18,
		Year:           1999,
		SortBy:         "popularity.desc",
		VoteAverageGTE: 7.5,
	})
	if err != nil {
		t.Fatalf("DiscoverMovies: %v", err)
	}
	if got["page"] != "2" || got["with_genres"] != "18" || got["primary_release_year"] != "1999" {
		t.Fatalf("query = %v", got)
	}
	if got["sort_by"] != "popularity.desc" || got["vote_average.gte"] != "7.5" {
		t.Fatalf("query = %v", got)
	}
}
