// Package catalog exposes the typed, cached read operations the browsing UI
// is built on: search, the home-page listings, genre list, discover and full
// movie detail.
package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/catalog/cache"
	"github.com/louixani-inc/lx-movie-app-dev/internal/tmdb"
)

// StalenessWindows declares how long each operation's cached result stays
// fresh. Values mirror what the front-end always used.
type StalenessWindows struct {
	Search     time.Duration
	Popular    time.Duration
	Trending   time.Duration
	TopRated   time.Duration
	NowPlaying time.Duration
	Upcoming   time.Duration
	Detail     time.Duration
	Genres     time.Duration
	Discover   time.Duration
}

func DefaultStaleness() StalenessWindows {
	return StalenessWindows{
		Search:     5 * time.Minute,
		Popular:    10 * time.Minute,
		Trending:   30 * time.Minute,
		TopRated:   time.Hour,
		NowPlaying: time.Hour,
		Upcoming:   time.Hour,
		Detail:     time.Hour,
		Genres:     24 * time.Hour,
		Discover:   30 * time.Minute,
	}
}

// Queries is the cached catalog read layer. Handlers own no TMDB knowledge;
// they call Queries and shape the response.
type Queries struct {
	TMDB    *tmdb.Client
	Cache   cache.Store
	Windows StalenessWindows
	Log     *zap.Logger
}

func NewQueries(client *tmdb.Client, store cache.Store, log *zap.Logger) *Queries {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queries{TMDB: client, Cache: store, Windows: DefaultStaleness(), Log: log}
}

func (q *Queries) Search(ctx context.Context, query string, page int) (*tmdb.MoviePage, error) {
	key := fmt.Sprintf("search:%s:%d", query, page)
	return cached(ctx, q, key, q.Windows.Search, func() (*tmdb.MoviePage, error) {
		return q.TMDB.SearchMovies(ctx, query, page)
	})
}

func (q *Queries) Popular(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	key := fmt.Sprintf("popular:%d", page)
	return cached(ctx, q, key, q.Windows.Popular, func() (*tmdb.MoviePage, error) {
		return q.TMDB.PopularMovies(ctx, page)
	})
}

func (q *Queries) Trending(ctx context.Context, window string) (*tmdb.MoviePage, error) {
	if window != "day" {
		window = "week"
	}
	key := "trending:" + window
	return cached(ctx, q, key, q.Windows.Trending, func() (*tmdb.MoviePage, error) {
		return q.TMDB.TrendingMovies(ctx, window)
	})
}

func (q *Queries) TopRated(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	key := fmt.Sprintf("top-rated:%d", page)
	return cached(ctx, q, key, q.Windows.TopRated, func() (*tmdb.MoviePage, error) {
		return q.TMDB.TopRatedMovies(ctx, page)
	})
}

func (q *Queries) NowPlaying(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	key := fmt.Sprintf("now-playing:%d", page)
	return cached(ctx, q, key, q.Windows.NowPlaying, func() (*tmdb.MoviePage, error) {
		return q.TMDB.NowPlayingMovies(ctx, page)
	})
}

func (q *Queries) Upcoming(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	key := fmt.Sprintf("upcoming:%d", page)
	return cached(ctx, q, key, q.Windows.Upcoming, func() (*tmdb.MoviePage, error) {
		return q.TMDB.UpcomingMovies(ctx, page)
	})
}

func (q *Queries) Details(ctx context.Context, movieID int) (*tmdb.MovieDetails, error) {
	key := fmt.Sprintf("detail:%d", movieID)
	return cached(ctx, q, key, q.Windows.Detail, func() (*tmdb.MovieDetails, error) {
		return q.TMDB.MovieDetails(ctx, movieID)
	})
}

func (q *Queries) Genres(ctx context.Context) (*tmdb.GenreList, error) {
	return cached(ctx, q, "genres", q.Windows.Genres, func() (*tmdb.GenreList, error) {
		return q.TMDB.Genres(ctx)
	})
}

func (q *Queries) Discover(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.MoviePage, error) {
	key := fmt.Sprintf("discover:%d:%d:%d:%s:%g", p.Page, p.Genre, p.Year, p.SortBy, p.VoteAverageGTE)
	return cached(ctx, q, key, q.Windows.Discover, func() (*tmdb.MoviePage, error) {
		return q.TMDB.DiscoverMovies(ctx, p)
	})
}

// cached is the read-through path: hit → return, miss → fetch and store.
// Cache failures degrade to a direct fetch; they are logged, never returned.
func cached[T any](ctx context.Context, q *Queries, key string, ttl time.Duration, fetch func() (*T, error)) (*T, error) {
	if q.Cache != nil {
		var hit T
		ok, err := q.Cache.Get(ctx, key, &hit)
		if err != nil {
			q.Log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return &hit, nil
		}
	}
	out, err := fetch()
	if err != nil {
		return nil, err
	}
	if q.Cache != nil {
		if err := q.Cache.Set(ctx, key, out, ttl); err != nil {
			q.Log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}
