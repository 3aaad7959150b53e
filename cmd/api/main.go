package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"ko_lake_villa/internal/adapters/channel"
	server "ko_lake_villa/internal/adapters/http_server"
	"ko_lake_villa/internal/adapters/observability"
	redisad "ko_lake_villa/internal/adapters/redis"
	"ko_lake_villa/internal/app"
	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/pricing"
	"ko_lake_villa/internal/shared"
	mysqlrepo "ko_lake_villa/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")
	if cfg.MigrateOnStart {
		if err := mysqlrepo.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable; every read will miss the cache")
	}

	rules := pricing.DefaultRules()
	if cfg.PricingRulesFile != "" {
		if rules, err = pricing.LoadRules(cfg.PricingRulesFile); err != nil {
			log.Fatal().Err(err).Str("path", cfg.PricingRulesFile).Msg("pricing rules invalid")
		}
	}
	var engine *pricing.Engine
	avail := app.NewNextWeekdaysAvailability(repo, func() pricing.RuleTable { return engine.Rules() },
		cfg.AvailabilityTimeout, cfg.Location())
	engine = pricing.New(avail, pricing.WithRules(rules), pricing.WithLogger(log.Logger))

	if cfg.PricingRulesFile != "" {
		rw, err := pricing.NewRulesWatcher(cfg.PricingRulesFile, engine, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("pricing rules will not hot-reload")
		} else {
			go func() { _ = rw.Run(ctx) }()
		}
	}

	var ch domain.ChannelClient
	if cfg.ChannelKey != "" {
		c, err := channel.New(cfg.ChannelBase, cfg.ChannelKey, cfg.ChannelRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize channel client")
		}
		ch = c
	}

	policy := cfg.DirectPolicy()
	quotes := app.NewQuoteService(engine, repo, cache, cfg.CacheTTL, policy)
	h := &server.Handlers{
		Quotes:    quotes,
		Gallery:   app.NewGalleryService(repo, cache, cfg.CacheTTL, log.Logger),
		Bookings:  app.NewBookingService(repo, quotes, log.Logger),
		Rates:     app.NewRateSyncService(ch, repo, cache, policy, log.Logger),
		PublicRPS: cfg.PublicRPS,
		Ready:     db.PingContext,
	}

	// http
	srv := server.New(log.Logger)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
