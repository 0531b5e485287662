// Package tmdb is the client for The Movie Database REST API v3.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	// ErrNotConfigured is returned before any network call when no API key
	// is set; the gateway maps it to a 500 "not configured" response.
	ErrNotConfigured = errors.New("tmdb: API key not configured")

	// ErrNotFound maps upstream 404s so handlers can pass them through.
	ErrNotFound = errors.New("tmdb: not found")
)

// ClientConfig holds configurable settings for the TMDB client.
type ClientConfig struct {
	APIKey         string
	Language       string
	MaxRetries     int
	RetryBaseDelay time.Duration
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Config     ClientConfig
	CB         *gobreaker.CircuitBreaker
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.CB = cb }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTPClient = h }
}

func New(baseURL string, cfg ClientConfig, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Config:     cfg,
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether an API key is present. /health uses this.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.Config.APIKey) != ""
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(normPage(page)))
	q.Set("include_adult", "false")
	return getJSON[MoviePage](ctx, c, "/search/movie", q)
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.pagedList(ctx, "/movie/popular", page)
}

// TrendingMovies accepts the TMDB time windows "day" and "week".
func (c *Client) TrendingMovies(ctx context.Context, window string) (*MoviePage, error) {
	if window != "day" {
		window = "week"
	}
	return getJSON[MoviePage](ctx, c, "/trending/movie/"+window, nil)
}

func (c *Client) TopRatedMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.pagedList(ctx, "/movie/top_rated", page)
}

func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.pagedList(ctx, "/movie/now_playing", page)
}

func (c *Client) UpcomingMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.pagedList(ctx, "/movie/upcoming", page)
}

// MovieDetails fetches full detail with credits, videos, similar and
// recommendations appended in a single upstream round trip.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*MovieDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", "videos,credits,similar,recommendations")
	return getJSON[MovieDetails](ctx, c, "/movie/"+strconv.Itoa(movieID), q)
}

func (c *Client) Genres(ctx context.Context) (*GenreList, error) {
	return getJSON[GenreList](ctx, c, "/genre/movie/list", nil)
}

// DiscoverParams filters the /discover/movie endpoint.
type DiscoverParams struct {
	Page           int
	Genre          int
	Year           int
	SortBy         string
	VoteAverageGTE float64
}

func (c *Client) DiscoverMovies(ctx context.Context, p DiscoverParams) (*MoviePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(normPage(p.Page)))
	if p.Genre > 0 {
		q.Set("with_genres", strconv.Itoa(p.Genre))
	}
	if p.Year > 0 {
		q.Set("primary_release_year", strconv.Itoa(p.Year))
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if p.VoteAverageGTE > 0 {
		q.Set("vote_average.gte", strconv.FormatFloat(p.VoteAverageGTE, 'f', -1, 64))
	}
	return getJSON[MoviePage](ctx, c, "/discover/movie", q)
}

func (c *Client) pagedList(ctx context.Context, path string, page int) (*MoviePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(normPage(page)))
	return getJSON[MoviePage](ctx, c, path, q)
}

func normPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func getJSON[T any](ctx context.Context, c *Client, path string, q url.Values) (*T, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.Config.APIKey)
	q.Set("language", c.Config.Language)
	endpoint := c.BaseURL + path + "?" + q.Encode()

	if c.CB == nil {
		return doJSONWithRetry[T](ctx, c, endpoint)
	}
	result, err := c.CB.Execute(func() (interface{}, error) {
		return doJSONWithRetry[T](ctx, c, endpoint)
	})
	if err != nil {
		return nil, err
	}
	return result.(*T), nil
}

func doJSONWithRetry[T any](ctx context.Context, c *Client, u string) (*T, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.Config.RetryBaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			c.Log.Debug("retrying request", zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		result, err := doJSON[T](ctx, c, u)
		if err == nil {
			return result, nil
		}
		// 404 is a definitive answer, not a transient failure.
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		lastErr = err
		c.Log.Warn("tmdb request failed", zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func doJSON[T any](ctx context.Context, c *Client, u string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lx-movies/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("tmdb: decode error: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return &out, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
