// SPDX-License-Identifier: MIT

// Command iptvd fetches an upstream M3U playlist, filters and re-categorizes
// its channels by configured keyword rules, and writes the result as a new
// playlist. It runs either once or as a small HTTP daemon serving the
// generated playlist.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/h-iptv/iptv/internal/api"
	"github.com/h-iptv/iptv/internal/config"
	"github.com/h-iptv/iptv/internal/jobs"
	xlog "github.com/h-iptv/iptv/internal/log"
	"github.com/h-iptv/iptv/internal/rules"
)

var (
	version   = "v0.3.0"
	commit    = "none"
	buildDate = "unknown"
)

// maskURL removes user info from a URL string for safe logging.
func maskURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsed.User = nil
	return parsed.String()
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	once := flag.Bool("once", false, "run a single refresh and exit")
	listen := flag.String("listen", "", "listen address for serve mode (overrides config)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until the configured level is known.
	xlog.Configure(xlog.Config{Level: "info", Service: "iptvd", Version: version})
	logger := xlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xlog.FieldEvent, "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	xlog.Configure(xlog.Config{Level: cfg.LogLevel, Service: "iptvd", Version: version})
	logger.Info().
		Str(xlog.FieldEvent, "config.loaded").
		Str(xlog.FieldSourceURL, maskURL(cfg.SourceURL)).
		Str("data_dir", cfg.DataDir).
		Str("mode", string(cfg.Filter.Mode)).
		Int("categories", len(cfg.Filter.Categories)).
		Int("blacklist", len(cfg.Filter.Blacklist)).
		Msg("configuration loaded")

	eng, err := rules.New(cfg.Filter)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xlog.FieldEvent, "rules.compile_failed").
			Msg("failed to compile filter rules")
	}

	jobCfg := jobs.Config{
		SourceURL:    cfg.SourceURL,
		DataDir:      cfg.DataDir,
		PlaylistName: cfg.PlaylistName,
		FetchTimeout: cfg.FetchTimeout,
	}

	if *once || cfg.Listen == "" {
		if _, err := jobs.Refresh(ctx, jobCfg, eng); err != nil {
			logger.Error().
				Err(err).
				Str(xlog.FieldEvent, "refresh.failed").
				Msg("refresh failed")
			os.Exit(1)
		}
		return
	}

	runServer(ctx, cfg, eng, jobCfg)
}

func runServer(ctx context.Context, cfg config.AppConfig, eng *rules.Engine, jobCfg jobs.Config) {
	logger := xlog.WithComponent("daemon")

	srv := api.New(cfg, eng)

	// Initial refresh so the playlist endpoint has something to serve. A
	// failure is not fatal in serve mode; a later refresh can recover.
	if st, err := jobs.Refresh(ctx, jobCfg, eng); err != nil {
		logger.Error().
			Err(err).
			Str(xlog.FieldEvent, "refresh.failed").
			Msg("startup refresh failed")
		srv.SetStatus(jobs.Status{LastRun: time.Now(), Error: err.Error()})
	} else {
		srv.SetStatus(*st)
	}

	if cfg.RefreshInterval > 0 {
		go refreshLoop(ctx, cfg.RefreshInterval, jobCfg, eng, srv)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str(xlog.FieldEvent, "server.start").
			Str("listen", cfg.Listen).
			Msg("http server listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Str(xlog.FieldEvent, "server.shutdown").Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().
				Err(err).
				Str(xlog.FieldEvent, "server.failed").
				Msg("http server failed")
		}
	}
}

func refreshLoop(ctx context.Context, interval time.Duration, jobCfg jobs.Config, eng *rules.Engine, srv *api.Server) {
	logger := xlog.WithComponent("daemon")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st, err := jobs.Refresh(ctx, jobCfg, eng)
			if err != nil {
				logger.Error().
					Err(err).
					Str(xlog.FieldEvent, "refresh.failed").
					Msg("periodic refresh failed")
				srv.SetStatus(jobs.Status{LastRun: time.Now(), Error: err.Error()})
				continue
			}
			srv.SetStatus(*st)
		}
	}
}
