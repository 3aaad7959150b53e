package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"ko_lake_villa/internal/adapters/channel"
	"ko_lake_villa/internal/adapters/observability"
	redisad "ko_lake_villa/internal/adapters/redis"
	"ko_lake_villa/internal/app"
	"ko_lake_villa/internal/shared"
	mysqlrepo "ko_lake_villa/internal/storage/mysql"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.ChannelBase).
		Int("workers", cfg.SyncWorkers).
		Msg("rate sync starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := channel.New(cfg.ChannelBase, cfg.ChannelKey, cfg.ChannelRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize channel client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	svc := app.NewRateSyncService(client, repo, cache, cfg.DirectPolicy(), log.Logger)

	codes, err := svc.Codes(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list rooms failed")
	}

	workers := cfg.SyncWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)

	for _, code := range codes {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("rate sync interrupted")
			break
		}

		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := svc.SyncRoom(ctx, code); err != nil {
				failed.Add(1)
				log.Warn().Str("room", code).Err(err).Msg("sync failed")
				return
			}
			log.Info().Str("room", code).Msg("sync ok")
		}(code)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Error().Int32("failed", n).Int("rooms", len(codes)).Msg("rate sync finished with failures")
		return 1
	}
	log.Info().Int("rooms", len(codes)).Msg("rate sync completed")
	return 0
}
