package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pg/pg/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vacancyboard/internal/actors/httpapi"
	mongoactor "vacancyboard/internal/actors/mongo"
	"vacancyboard/internal/actors/postgres"
	redisactor "vacancyboard/internal/actors/redis"
	"vacancyboard/internal/config"
	"vacancyboard/internal/core/ports"
	"vacancyboard/internal/core/usecase"

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

	var comments ports.CommentStore = postgresActor
	var identities ports.IdentityStore = postgresActor
	if cfg.EngagementStore == config.StoreMongo {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
		if err != nil {
			log.WithError(err).Error("could not connect to mongo")
			return err
		}
		defer mongoClient.Disconnect(ctx)
		if err := mongoClient.Ping(ctx, nil); err != nil {
			log.WithError(err).Error("mongo does not appear to be reachable")
			return err
		}
		database := mongoClient.Database("vacancyboard")
		mongoActor, err := mongoactor.NewMongoDB(mongoactor.MongoDBArgs{
			CommentCollection:  database.Collection("comments"),
			IdentityCollection: database.Collection("identities"),
		})
		if err != nil {
			log.WithError(err).Error("could not initialize mongo actor")
			return err
		}
		if err := mongoActor.EnsureIndexes(ctx); err != nil {
			log.WithError(err).Error("could not ensure mongo indexes")
			return err
		}
		comments = mongoActor
		identities = mongoActor
	}

	var repository ports.VacancyRepository = postgresActor
	if cfg.RedisURL != "" {
		client, err := redisactor.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Error("could not connect to redis")
			return err
		}
		defer client.Close()
		repository, err = redisactor.NewSnapshotCache(redisactor.SnapshotCacheArgs{
			Inner:  postgresActor,
			Client: client,
			TTL:    cfg.SnapshotTTL,
		})
		if err != nil {
			log.WithError(err).Error("could not initialize snapshot cache")
			return err
		}
	}

	server := httpapi.NewServer(httpapi.ServerArgs{
		Vacancies:  usecase.NewVacancyService(usecase.VacancyServiceArgs{Repository: repository}),
		Comments:   usecase.NewCommentService(usecase.CommentServiceArgs{Comments: comments, Vacancies: repository}),
		Identities: usecase.NewIdentityService(usecase.IdentityServiceArgs{Store: identities}),
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Routes(),
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	log.
		WithField("http-server-addr", httpServer.Addr).
		WithField("engagement-store", cfg.EngagementStore).
		Info("server up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the server")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-ch

	// Stop server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}
