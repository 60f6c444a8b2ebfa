package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mealbridge/marketplace/internal/api"
	"github.com/mealbridge/marketplace/internal/api/metrics"
	"github.com/mealbridge/marketplace/internal/core/ports"
	"github.com/mealbridge/marketplace/internal/core/service"
	"github.com/mealbridge/marketplace/internal/infrastructure/config"
	"github.com/mealbridge/marketplace/internal/infrastructure/db/memory"
	mongostore "github.com/mealbridge/marketplace/internal/infrastructure/db/mongo"
	redisstore "github.com/mealbridge/marketplace/internal/infrastructure/db/redis"
	"github.com/mealbridge/marketplace/internal/infrastructure/http/handlers"
	"github.com/mealbridge/marketplace/internal/infrastructure/mq"
	"github.com/mealbridge/marketplace/internal/infrastructure/queue"
	"github.com/mealbridge/marketplace/internal/infrastructure/seed"
	"github.com/mealbridge/marketplace/pkg/logger"
)

// @title        Meal Donation Marketplace API
// @version      1.0
// @description  Donate restaurant meals, reserve them and confirm pickups for reward points.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "marketplace"})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "marketplace",
	})

	// --- Optional backends ---
	var db *mongo.Database
	if cfg.Mongo.URI != "" {
		client, database, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "marketplace",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			log.Warn().Err(err).Msg("failed to ensure mongodb indexes")
		}
		db = database
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer func() { _ = rdb.Close() }()
	}

	// --- Seed source ---
	var source ports.SeedSource = seed.NewStatic(nil)
	if cfg.Marketplace.SeedSource == config.SeedMongo {
		n, err := mongostore.Bootstrap(ctx, db, source)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap mongodb seed collections")
		}
		if n > 0 {
			log.Info().Int("documents", n).Msg("seed collections bootstrapped")
		}
		source = mongostore.NewSeedRepository(db)
	}

	// --- Lifecycle events ---
	sinks := []ports.EventSink{metrics.Sink{}}
	if db != nil {
		sinks = append(sinks, mongostore.NewEventRepository(db))
	}
	if cfg.AMQP.URL != "" {
		pub, err := mq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer func() { _ = pub.Close() }()
		sinks = append(sinks, pub)
	}

	// The dispatcher outlives the signal context so that events from
	// requests still draining during shutdown are delivered.
	dispatcher := queue.NewDispatcher(cfg.Marketplace.EventWorkers, sinks, logger.Component("dispatcher"),
		queue.WithDropHook(metrics.RecordDrop))
	dispatcher.Start(context.Background())

	// --- Stores and services ---
	meals := service.NewMealRegistry(source, logger.Component("meals"),
		service.WithStrictTransitions(cfg.Marketplace.StrictTransitions))
	restaurants := service.NewRestaurantRegistry(source, logger.Component("restaurants"),
		service.WithCatalogEvents(dispatcher))

	if err := restaurants.FetchAll(ctx); err != nil {
		log.Error().Err(err).Msg("initial restaurant load failed")
	}
	if err := meals.FetchAll(ctx); err != nil {
		log.Error().Err(err).Msg("initial meal load failed")
	}

	var store interface {
		ports.SessionStore
		ports.LanguageStore
	} = memory.NewSessionStore()
	if rdb != nil {
		store = redisstore.NewSessionStore(rdb, cfg.Redis.TTL)
	}

	sessions := service.NewSessions(store, logger.Component("sessions"))

	var marketOpts []service.MarketplaceOption
	if rdb != nil {
		marketOpts = append(marketOpts, service.WithCreditGuard(redisstore.NewDedupChecker(rdb)))
	}

	e := api.NewRouter(api.Deps{
		JWTSecret:   cfg.JWTSecret,
		Log:         logger.Component("http"),
		Auth:        service.NewAuthService(sessions, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		Sessions:    sessions,
		Languages:   service.NewLanguageService(store, logger.Component("language")),
		Marketplace: service.NewMarketplace(meals, restaurants, sessions, dispatcher, logger.Component("marketplace"), marketOpts...),
		Meals:       meals,
		Restaurants: restaurants,
		Stats:       service.NewStatsService(meals, restaurants, sessions),
		Health: handlers.NewHealthDependenciesHandler(db, rdb, map[string]handlers.CatalogState{
			"meals":       meals,
			"restaurants": restaurants,
		}),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("lifecycle events abandoned at shutdown")
	}
	log.Info().Msg("server exited properly")
}
