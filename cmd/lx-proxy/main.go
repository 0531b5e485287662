package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/config"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/httpserver"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/logging"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/run"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/signing"
	"github.com/louixani-inc/lx-movie-app-dev/internal/proxy"
	proxyconfig "github.com/louixani-inc/lx-movie-app-dev/internal/proxy/config"
)

func main() {
	cfg := config.Load("lx-proxy")
	log, err := logging.ForService(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	proxyCfg, err := proxyconfig.Load()
	if err != nil {
		log.Error("proxy config", zap.Error(err))
		run.Exit(1)
	}

	server := proxy.NewServer(
		signing.New(proxyCfg.SigningSecret),
		&http.Client{Timeout: proxyCfg.UpstreamTimeout},
		proxyCfg.PublicBase,
		log,
	)

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: server.Routes()})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
