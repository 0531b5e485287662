package main

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/catalog"
	"github.com/louixani-inc/lx-movie-app-dev/internal/catalog/cache"
	gwconfig "github.com/louixani-inc/lx-movie-app-dev/internal/gateway/config"
	"github.com/louixani-inc/lx-movie-app-dev/internal/gateway/handlers"
	"github.com/louixani-inc/lx-movie-app-dev/internal/gateway/ratelimit"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/analytics"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/config"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/httpserver"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/logging"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/natsconn"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/run"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/signing"
	"github.com/louixani-inc/lx-movie-app-dev/internal/session"
	"github.com/louixani-inc/lx-movie-app-dev/internal/settings"
	"github.com/louixani-inc/lx-movie-app-dev/internal/streaming/source"
	"github.com/louixani-inc/lx-movie-app-dev/internal/tmdb"
)

const cacheInvalidationSubject = "catalog.cache.invalidate"

func main() {
	cfg := config.Load("lx-movies")
	gw := gwconfig.Load()

	log, err := logging.ForService(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if gw.TMDBAPIKey == "" {
		// Catalog endpoints answer 500 until the key arrives; the process
		// still serves streaming, settings and health.
		log.Warn("TMDB_API_KEY not set, catalog endpoints will report not configured")
	}

	nc, events := initNATS(gw, log)
	if nc != nil {
		defer nc.Drain() //nolint:errcheck
	}

	store := initCache(gw, nc, log)

	tmdbClient := tmdb.New("", tmdb.ClientConfig{
		APIKey:   gw.TMDBAPIKey,
		Language: gw.TMDBLanguage,
	},
		tmdb.WithLogger(log.Named("tmdb")),
		tmdb.WithCircuitBreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "tmdb",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})),
	)
	queries := catalog.NewQueries(tmdbClient, store, log.Named("catalog"))

	resolver := source.NewResolver(source.DefaultProviders(gw.VidsrcBase, gw.SuperembedBase, gw.EmbedsuBase))

	var proxy *handlers.ProxySigner
	if gw.SigningSecret != "" && gw.ProxyBase != "" {
		proxy = &handlers.ProxySigner{
			Signer: signing.New(gw.SigningSecret),
			Base:   gw.ProxyBase,
			TTL:    gw.SignTTL,
		}
	}

	settingsStore, err := settings.NewStore(gw.DatabaseURL, gw.SettingsFile, gw.IsProd())
	if err != nil {
		log.Error("settings store", zap.Error(err))
		run.Exit(1)
	}

	sessions := session.NewManager(resolver, queries, log.Named("session"),
		session.WithTTL(gw.SessionTTL),
		session.WithAnalytics(events),
	)

	router := handlers.Routes(handlers.Deps{
		Catalog:  queries,
		Resolver: resolver,
		Proxy:    proxy,
		Sessions: sessions,
		Settings: settingsStore,
		Events:   events,
		Limiter:  ratelimit.New(gw.RateLimitRPS, gw.RateLimitBurst),
		Health: handlers.HealthInfo{
			Version:         cfg.Version,
			TMDBConfigured:  tmdbClient.Configured(),
			ProviderCount:   len(resolver.Resolve(0, "", 0, "")),
			ProxyConfigured: proxy != nil,
		},
		Log: log,
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: router})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go sessions.Run(ctx)
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initNATS connects when NATS_URL is configured; otherwise analytics run as
// a no-op stub.
func initNATS(gw gwconfig.Config, log *zap.Logger) (*nats.Conn, *analytics.Publisher) {
	if gw.NatsURL == "" {
		log.Info("NATS not configured, analytics disabled")
		return nil, analytics.New(nil, log)
	}
	nc, err := natsconn.Connect(natsconn.Options{URL: gw.NatsURL, Name: "lx-movies"})
	if err != nil {
		if gw.IsProd() {
			log.Error("NATS is required in production", zap.Error(err))
			run.Exit(1)
		}
		log.Warn("NATS unavailable, analytics disabled", zap.Error(err))
		return nil, analytics.New(nil, log)
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("JetStream unavailable, analytics disabled", zap.Error(err))
		return nc, analytics.New(nil, log)
	}
	return nc, analytics.New(js, log)
}

// initCache picks Redis when configured, otherwise the in-memory TTL cache
// with NATS invalidation.
func initCache(gw gwconfig.Config, nc *nats.Conn, log *zap.Logger) cache.Store {
	if gw.RedisURL != "" {
		store, err := cache.NewRedis(gw.RedisURL)
		if err != nil {
			if gw.IsProd() {
				log.Error("REDIS_URL is set but invalid", zap.Error(err))
				run.Exit(1)
			}
			log.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
			return cache.NewMemory(nc, cacheInvalidationSubject)
		}
		log.Info("catalog cache using redis")
		return store
	}
	return cache.NewMemory(nc, cacheInvalidationSubject)
}
