package handlers

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/gateway/ratelimit"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/analytics"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/httpserver"
	"github.com/louixani-inc/lx-movie-app-dev/internal/session"
	"github.com/louixani-inc/lx-movie-app-dev/internal/settings"
	"github.com/louixani-inc/lx-movie-app-dev/internal/streaming/source"
)

// Deps is everything the gateway routes are wired from.
type Deps struct {
	Catalog  Catalog
	Resolver *source.Resolver
	Proxy    *ProxySigner
	Sessions *session.Manager
	Settings settings.Store
	Events   *analytics.Publisher
	Limiter  *ratelimit.Limiter
	Health   HealthInfo
	Log      *zap.Logger
}

// Routes builds the gateway router.
func Routes(d Deps) chi.Router {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r)

	r.Get("/health", Health(d.Health))

	r.Route("/api", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware)
		}

		r.Route("/movies", func(r chi.Router) {
			r.Get("/search", SearchMovies(d.Catalog, d.Events, log))
			r.Get("/popular", PopularMovies(d.Catalog, log))
			r.Get("/trending", TrendingMovies(d.Catalog, log))
			r.Get("/top-rated", TopRatedMovies(d.Catalog, log))
			r.Get("/now-playing", NowPlayingMovies(d.Catalog, log))
			r.Get("/upcoming", UpcomingMovies(d.Catalog, log))
			r.Get("/discover", DiscoverMovies(d.Catalog, log))
			r.Get("/{id}", MovieDetail(d.Catalog, d.Events, log))
		})
		r.Get("/genres", Genres(d.Catalog, log))

		r.Route("/streaming", func(r chi.Router) {
			r.Get("/sources", Sources(d.Resolver, d.Proxy, log))
			r.Get("/{providerKey}", ProviderSource(d.Resolver, d.Proxy, log))
		})

		r.Route("/playback/sessions", func(r chi.Router) {
			r.Post("/", CreateSession(d.Sessions, log))
			r.Get("/{sessionID}", GetSession(d.Sessions))
			r.Post("/{sessionID}/events", SessionEvents(d.Sessions))
			r.Post("/{sessionID}/intent", SessionIntent(d.Sessions))
			r.Delete("/{sessionID}", DeleteSession(d.Sessions))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", GetSettings(d.Settings, log))
			r.Put("/", PutSettings(d.Settings, log))
			r.Post("/reset", ResetSettings(d.Settings, log))
			r.Get("/export", ExportSettings(d.Settings, log))
			r.Post("/import", ImportSettings(d.Settings, log))
		})
	})

	return r
}
