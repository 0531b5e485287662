package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/analytics"
	"github.com/louixani-inc/lx-movie-app-dev/internal/player"
	"github.com/louixani-inc/lx-movie-app-dev/internal/player/engine"
	"github.com/louixani-inc/lx-movie-app-dev/internal/streaming/source"
	"github.com/louixani-inc/lx-movie-app-dev/internal/tmdb"
)

// ErrNoSources mirrors the controller's rejection of an empty source list.
var ErrNoSources = player.ErrNoSources

// MovieLookup provides the movie identity needed to expand provider URL
// templates. Satisfied by catalog.Queries.
type MovieLookup interface {
	Details(ctx context.Context, movieID int) (*tmdb.MovieDetails, error)
}

// CreateOptions shape a new playback session.
type CreateOptions struct {
	MovieID           int     `json:"movieId"`
	PreferredProvider string  `json:"preferredProvider,omitempty"`
	Autoplay          bool    `json:"autoplay,omitempty"`
	NativeHLS         bool    `json:"nativeHls,omitempty"`
	Volume            float64 `json:"volume,omitempty"`
}

// Manager owns the live session table. Sessions idle past the TTL are
// reaped by Run.
type Manager struct {
	resolver      *source.Resolver
	movies        MovieLookup
	streamClients engine.StreamClientFactory
	events        *analytics.Publisher
	log           *zap.Logger
	ttl           time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(resolver *source.Resolver, movies MovieLookup, log *zap.Logger, opts ...ManagerOption) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		resolver: resolver,
		movies:   movies,
		log:      log,
		ttl:      30 * time.Minute,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type ManagerOption func(*Manager)

func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = ttl }
}

func WithAnalytics(p *analytics.Publisher) ManagerOption {
	return func(m *Manager) { m.events = p }
}

func WithStreamClients(f engine.StreamClientFactory) ManagerOption {
	return func(m *Manager) { m.streamClients = f }
}

// Create resolves the movie's source list and starts a session over it.
// The first source is attached immediately.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (*Session, error) {
	details, err := m.movies.Details(ctx, opts.MovieID)
	if err != nil {
		return nil, fmt.Errorf("session: movie lookup: %w", err)
	}

	year := tmdb.ReleaseYear(details.ReleaseDate)
	sources := m.resolver.Resolve(opts.MovieID, details.Title, year, opts.PreferredProvider)
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	id := uuid.NewString()
	surface := &queueSurface{nativeHLS: opts.NativeHLS}
	ctrl, err := player.New(sources, surface, player.Options{
		Autoplay:      opts.Autoplay,
		InitialVolume: opts.Volume,
		StreamClients: m.streamClients,
		Logger:        m.log.With(zap.String("session_id", id)),
		Events:        m.events,
		SessionID:     id,
	})
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &Session{
		ID:         id,
		MovieID:    opts.MovieID,
		controller: ctrl,
		surface:    surface,
		created:    now,
		lastSeen:   now,
	}
	ctrl.Load()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.events.Publish(analytics.SubjectPlaybackStarted, "playback_session_created", id, map[string]any{
		"movie_id": opts.MovieID,
		"sources":  len(sources),
	})
	m.log.Info("playback session created",
		zap.String("session_id", id),
		zap.Int("movie_id", opts.MovieID),
		zap.Int("sources", len(sources)))
	return s, nil
}

// Get returns the session and refreshes its idle clock.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrUnknownSession
	}
	s.touch(m.now())
	return s, nil
}

// Delete closes and removes the session. Deleting an unknown id is an error.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}
	s.close()
	m.log.Info("playback session closed", zap.String("session_id", id))
	return nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run reaps idle sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

func (m *Manager) reap() {
	cutoff := m.now().Add(-m.ttl)
	var expired []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.seen().Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
		m.log.Info("playback session expired", zap.String("session_id", s.ID))
	}
}
