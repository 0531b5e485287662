// Package handlers holds the gateway's HTTP handlers. Handlers shape
// requests and responses only; catalog, streaming, session and settings
// logic lives in the packages they front.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/api"
	"github.com/louixani-inc/lx-movie-app-dev/internal/tmdb"
)

// Catalog is the cached read layer the movie endpoints are built on.
// Satisfied by *catalog.Queries.
type Catalog interface {
	Search(ctx context.Context, query string, page int) (*tmdb.MoviePage, error)
	Popular(ctx context.Context, page int) (*tmdb.MoviePage, error)
	Trending(ctx context.Context, window string) (*tmdb.MoviePage, error)
	TopRated(ctx context.Context, page int) (*tmdb.MoviePage, error)
	NowPlaying(ctx context.Context, page int) (*tmdb.MoviePage, error)
	Upcoming(ctx context.Context, page int) (*tmdb.MoviePage, error)
	Details(ctx context.Context, movieID int) (*tmdb.MovieDetails, error)
	Genres(ctx context.Context) (*tmdb.GenreList, error)
	Discover(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.MoviePage, error)
}

// Cache-Control values per endpoint family. Detail pages are effectively
// immutable; listings churn hourly.
const (
	cacheDetail  = "public, s-maxage=86400, stale-while-revalidate=172800"
	cacheListing = "public, s-maxage=3600, stale-while-revalidate=7200"
	cacheGenres  = "public, s-maxage=86400"
	cacheNone    = "no-cache, no-store, must-revalidate"
)

func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil || n < 1 {
		return 1
	}
	if n > 500 {
		// TMDB caps pagination at 500.
		return 500
	}
	return n
}

// writeUpstreamError maps catalog/TMDB failures onto the gateway's error
// contract: missing key and upstream 404 have exact bodies, everything else
// collapses to a generic 500.
func writeUpstreamError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, tmdb.ErrNotConfigured):
		api.Internal(w, "TMDB API key not configured")
	case errors.Is(err, tmdb.ErrNotFound):
		api.NotFound(w, "Movie not found")
	default:
		log.Error("tmdb request failed", zap.Error(err))
		api.Internal(w, "Failed to fetch data from TMDB")
	}
}
