package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-pg/pg/v10"
	"github.com/robfig/cron/v3"

	"vacancyboard/internal/actors/postgres"
	redisactor "vacancyboard/internal/actors/redis"
	"vacancyboard/internal/config"

	log "github.com/sirupsen/logrus"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	// Only log the DebugLevel severity or above.
	log.SetLevel(log.DebugLevel)
}

func run() error {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return err
	}
	if cfg.RedisURL == "" {
		return errors.New("REDIS_URL is required to run the refresher")
	}

	pgOpts, err := pg.ParseURL(cfg.PostgresURL)
	if err != nil {
		log.WithError(err).Error("could not parse postgres url")
		return err
	}
	db := pg.Connect(pgOpts)
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		log.WithError(err).Error("db does not appear to be reachable")
		return err
	}

	postgresActor, err := postgres.NewPostgresDB(postgres.PostgresDBArgs{DB: db})
	if err != nil {
		log.WithError(err).Error("could not initialize postgres actor")
		return err
	}

	client, err := redisactor.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Error("could not connect to redis")
		return err
	}
	defer client.Close()

	cache, err := redisactor.NewSnapshotCache(redisactor.SnapshotCacheArgs{
		Inner:  postgresActor,
		Client: client,
		TTL:    cfg.SnapshotTTL,
	})
	if err != nil {
		log.WithError(err).Error("could not initialize snapshot cache")
		return err
	}

	// warm the cache before the first tick
	if err := cache.Refresh(ctx); err != nil {
		log.WithError(err).Error("initial snapshot refresh failed")
		return err
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.RefreshSchedule, func() {
		if err := cache.Refresh(ctx); err != nil {
			log.WithError(err).Error("scheduled snapshot refresh failed")
			return
		}
		log.Info("snapshot refreshed")
	})
	if err != nil {
		log.WithError(err).WithField("schedule", cfg.RefreshSchedule).Error("invalid refresh schedule")
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.
		WithField("schedule", cfg.RefreshSchedule).
		Info("refresher up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the refresher")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-ch

	return nil
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}
