package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/analytics"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/api"
	"github.com/louixani-inc/lx-movie-app-dev/internal/tmdb"
)

// MovieDetail handles GET /api/movies/{id}
func MovieDetail(catalog Catalog, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil || id <= 0 {
			api.BadRequest(w, "Invalid movie ID")
			return
		}

		details, err := catalog.Details(r.Context(), id)
		if err != nil {
			writeUpstreamError(w, log, err)
			return
		}

		events.Publish(analytics.SubjectMovieViewed, "movie_viewed", "", map[string]any{
			"movie_id": id,
		})
		w.Header().Set("Cache-Control", cacheDetail)
		api.WriteJSON(w, http.StatusOK, details)
	}
}

// SearchMovies handles GET /api/movies/search?query=&page=
func SearchMovies(catalog Catalog, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			api.BadRequest(w, "Query parameter is required")
			return
		}

		page, err := catalog.Search(r.Context(), query, pageParam(r))
		if err != nil {
			writeUpstreamError(w, log, err)
			return
		}

		events.Publish(analytics.SubjectSearchPerformed, "search_performed", "", map[string]any{
			"query":   query,
			"results": page.TotalResults,
		})
		w.Header().Set("Cache-Control", cacheListing)
		api.WriteJSON(w, http.StatusOK, page)
	}
}

// listing wraps the one-page catalog listings that differ only in which
// query they call.
func listing(log *zap.Logger, fetch func(r *http.Request) (*tmdb.MoviePage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fetch(r)
		if err != nil {
			writeUpstreamError(w, log, err)
			return
		}
		w.Header().Set("Cache-Control", cacheListing)
		api.WriteJSON(w, http.StatusOK, page)
	}
}

// PopularMovies handles GET /api/movies/popular?page=
func PopularMovies(catalog Catalog, log *zap.Logger) http.HandlerFunc {
	return listing(log, func(r *http.Request) (*tmdb.MoviePage, error) {
		return catalog.Popular(r.Context(), pageParam(r))
	})
}

// TrendingMovies handles GET /api/movies/trending?window=day|week
func TrendingMovies(catalog Catalog, log *zap.Logger) http.HandlerFunc {
	return listing(log, func(r *http.Request) (*tmdb.MoviePage, error) {
		return catalog.Trending(r.Context(), strings.TrimSpace(r.URL.Query().Get("window")))
	})
}

// TopRatedMovies handles GET /api/movies/top-rated?page=
func TopRatedMovies(catalog Catalog, log *zap.Logger) http.HandlerFunc {
	return listing(log, func(r *http.Request) (*tmdb.MoviePage, error) {
		return catalog.TopRated(r.Context(), pageParam(r))
	})
}

// NowPlayingMovies handles GET /api/movies/now-playing?page=
func NowPlayingMovies(catalog Catalog, log *zap.Logger) http.HandlerFunc {
	return listing(log, func(r *http.Request) (*tmdb.MoviePage, error) {
		return catalog.NowPlaying(r.Context(), pageParam(r))
	})
}

// UpcomingMovies handles GET /api/movies/upcoming?page=
func UpcomingMovies(catalog Catalog, log *zap.Logger) http.HandlerFunc {
	return listing(log, func(r *http.Request) (*tmdb.MoviePage, error) {
		return catalog.Upcoming(r.Context(), pageParam(r))
	})
}

// DiscoverMovies handles GET /api/movies/discover?page=&genre=&year=&sort_by=&vote_average_gte=
func DiscoverMovies(catalog Catalog, log *zap.Logger) http.HandlerFunc {
	return listing(log, func(r *http.Request) (*tmdb.MoviePage, error) {
		q := r.URL.Query()
		genre, _ := strconv.Atoi(q.Get("genre"))
		year, _ := strconv.Atoi(q.Get("year"))
		voteGTE, _ := strconv.ParseFloat(q.Get("vote_average_gte"), 64)
		return catalog.Discover(r.Context(), tmdb.DiscoverParams{
			Page:           pageParam(r),
			Genre:          genre,
			Year:           year,
			SortBy:         strings.TrimSpace(q.Get("sort_by")),
			VoteAverageGTE: voteGTE,
		})
	})
}

// Genres handles GET /api/genres
func Genres(catalog Catalog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genres, err := catalog.Genres(r.Context())
		if err != nil {
			writeUpstreamError(w, log, err)
			return
		}
		w.Header().Set("Cache-Control", cacheGenres)
		api.WriteJSON(w, http.StatusOK, genres)
	}
}
