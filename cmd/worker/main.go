package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"

	produceractor "vacancyboard/internal/actors/pubsub/producer"
	subscriberactor "vacancyboard/internal/actors/pubsub/subscriber"
	"vacancyboard/internal/config"
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

	client, err := pubsub.NewClient(ctx, cfg.PubsubProjectID)
	if err != nil {
		return err
	}
	defer client.Close()

	topic := client.Topic(cfg.CommentEventTopicID)
	producer, err := produceractor.NewProducer(topic)
	if err != nil {
		return err
	}

	notifier := usecase.NewNotifier(producer)

	subscription := client.Subscription(cfg.CommentCDCSubscriptionID)
	subscriber := subscriberactor.NewSubscriber(subscriberactor.SubscriberArgs{
		CommentEventHandler: notifier,
		Subscription:        subscription,
	})

	// start subscriber
	go func(ctx context.Context) {
		if err := subscriber.Consume(ctx); err != nil {
			panic(err)
		}
	}(ctx)

	// liveness endpoint
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	go func() {
		if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
			panic(err)
		}
	}()

	log.
		WithField("subscription", cfg.CommentCDCSubscriptionID).
		WithField("topic", cfg.CommentEventTopicID).
		Info("worker up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the worker")

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
