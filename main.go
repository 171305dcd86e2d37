package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"streamhub/domain/repository"
	"streamhub/infrastructure/cache"
	"streamhub/infrastructure/configuration"
	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/metrics"
	"streamhub/infrastructure/persistence"
	"streamhub/infrastructure/pubsub"
	"streamhub/infrastructure/servicebus"
	"streamhub/infrastructure/storage"
	httpHandler "streamhub/interfaces/http"
	"streamhub/interfaces/middleware"
	"streamhub/server"
	"streamhub/usecase"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const localMediaRoute = "/media"

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

// Store bundles the repositories of one backing store.
type Store struct {
	Vendor        string
	Users         repository.IUser
	Subscriptions repository.ISubscription
	Tweets        repository.ITweet
	Videos        repository.IVideo
	Ping          httpHandler.HealthCheck
	Close         func(ctx context.Context) error
}

func main() {
	defer recoverPanic()

	// Load env from files (non-destructive; OS env still has precedence)
	if loaded := configuration.LoadEnvFromFile("config.env", ".env"); len(loaded) > 0 {
		logger.GetLogger().WithField("files", loaded).Info("Loaded env files")
	}

	cfg, err := configuration.Load()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Invalid configuration")
	}
	logger.Configure(cfg.Logger.Format, cfg.Logger.Level)
	metrics.Register()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := InitiateStore(ctx, cfg.Database)
	checks := map[string]httpHandler.HealthCheck{"store": store.Ping}

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port),
		cfg.RedisClient.Username,
		cfg.RedisClient.Password,
	)
	var userCache repository.IUserCache
	if cfg.RedisClient.Host == "" || err != nil {
		logger.GetLogger().Warn("Redis not configured or unreachable - user cache disabled")
		if redisClient != nil {
			_ = redisClient.Close()
		}
	} else {
		userCache = cache.NewUserCache(redisClient, cfg.RedisClient.TTL)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		defer redisClient.Close()
		logger.GetLogger().Info("Redis client initialized successfully.")
	}

	blobStore, mediaDir := InitiateBlobStore(ctx, cfg)
	publisher, closePublisher := InitiatePublisher(ctx, cfg.Events)
	defer closePublisher()

	tokenUsecase := usecase.NewTokenUsecase(store.Users, cfg.Auth)
	userUsecase := usecase.NewUserUsecase(store.Users, tokenUsecase, blobStore, userCache, publisher)
	channelUsecase := usecase.NewChannelUsecase(store.Users)
	subscriptionUsecase := usecase.NewSubscriptionUsecase(store.Users, store.Subscriptions, publisher)
	tweetUsecase := usecase.NewTweetUsecase(store.Users, store.Tweets)
	videoUsecase := usecase.NewVideoUsecase(store.Users, store.Videos, blobStore)

	uploadDir := filepath.Join(cfg.App.UploadDir, "streamhub-uploads")
	userHandler := httpHandler.NewUserHandler(userUsecase, channelUsecase, cfg.Auth, uploadDir)
	subscriptionHandler := httpHandler.NewSubscriptionHandler(subscriptionUsecase)
	tweetHandler := httpHandler.NewTweetHandler(tweetUsecase)
	videoHandler := httpHandler.NewVideoHandler(videoUsecase, uploadDir)
	healthHandler := httpHandler.NewHealthHandler(checks)

	if cfg.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.InitiateRouter(
		userHandler,
		subscriptionHandler,
		tweetHandler,
		videoHandler,
		healthHandler,
		middleware.Auth(tokenUsecase, store.Users, userCache),
		middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst),
		cfg.App.CorsOrigins,
	)
	if mediaDir != "" {
		router.Static(localMediaRoute, mediaDir)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	logger.GetLogger().WithFields(map[string]interface{}{"port": cfg.App.Port, "tls": cfg.App.TLSEnabled, "store": store.Vendor}).
		Info("Starting application")
	g.Go(func() error {
		return serve(httpServer, cfg.App)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.GetLogger().Info("Application shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.GetLogger().WithField("error", err).Error("HTTP server shutdown failed")
		}
		if err := store.Close(shutdownCtx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Store close failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

func serve(httpServer *http.Server, app configuration.App) error {
	var err error
	if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
		err = httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
	} else {
		if app.TLSEnabled {
			logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
		}
		err = httpServer.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// InitiateStore connects the configured vendor and falls back to the in-memory store when it is unreachable.
func InitiateStore(ctx context.Context, db configuration.Database) *Store {
	switch db.Vendor {
	case configuration.VendorMongo:
		client, err := persistence.NewMongoDb(ctx, db.Mongo)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MongoDB not available - falling back to the in-memory store")
			break
		}
		mongoDb := client.Database(db.Mongo.Name)
		ensure := func(ctx context.Context) error { return persistence.EnsureMongoIndexes(ctx, mongoDb) }
		if err := prepareStore(ctx, ensure, client.Disconnect); err != nil {
			logger.GetLogger().WithField("error", err).Error("MongoDB indexes not ensured - falling back to the in-memory store")
			break
		}
		return &Store{
			Vendor:        configuration.VendorMongo,
			Users:         persistence.NewUserMongoRepository(mongoDb),
			Subscriptions: persistence.NewSubscriptionMongoRepository(mongoDb),
			Tweets:        persistence.NewTweetMongoRepository(mongoDb),
			Videos:        persistence.NewVideoMongoRepository(mongoDb),
			Ping:          func(ctx context.Context) error { return client.Ping(ctx, nil) },
			Close:         client.Disconnect,
		}

	case configuration.VendorPostgres:
		psqlDb, err := persistence.NewPostgreSQLDB(ctx, db.Psql)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - falling back to the in-memory store")
			break
		}
		ensure := func(context.Context) error { return persistence.EnsureSchema(psqlDb) }
		if err := prepareStore(ctx, ensure, func(context.Context) error { return psqlDb.Close() }); err != nil {
			logger.GetLogger().WithField("error", err).Error("PostgreSQL schema not ensured - falling back to the in-memory store")
			break
		}
		logger.GetLogger().Info("PostgreSQL connected successfully")
		return &Store{
			Vendor:        configuration.VendorPostgres,
			Users:         persistence.NewUserPostgresRepository(psqlDb),
			Subscriptions: persistence.NewSubscriptionPostgresRepository(psqlDb),
			Tweets:        persistence.NewTweetPostgresRepository(psqlDb),
			Videos:        persistence.NewVideoPostgresRepository(psqlDb),
			Ping:          psqlDb.PingContext,
			Close:         func(context.Context) error { return psqlDb.Close() },
		}
	}

	memory := persistence.NewMemoryStore()
	return &Store{
		Vendor:        configuration.VendorMemory,
		Users:         persistence.NewUserMemoryRepository(memory),
		Subscriptions: persistence.NewSubscriptionMemoryRepository(memory),
		Tweets:        persistence.NewTweetMemoryRepository(memory),
		Videos:        persistence.NewVideoMemoryRepository(memory),
		Ping:          func(context.Context) error { return nil },
		Close:         func(context.Context) error { return nil },
	}
}

// prepareStore runs schema or index setup. On failure the connection is closed and the error returned.
func prepareStore(ctx context.Context, ensure, closeFn func(context.Context) error) error {
	if err := ensure(ctx); err != nil {
		if closeErr := closeFn(ctx); closeErr != nil {
			logger.GetLogger().WithField("error", closeErr).Warn("Closing store after failed setup")
		}
		return fmt.Errorf("prepare store: %w", err)
	}
	return nil
}

// InitiateBlobStore returns S3 when a bucket is configured, otherwise a local directory served under /media.
func InitiateBlobStore(ctx context.Context, cfg *configuration.Config) (repository.IBlobStore, string) {
	if cfg.ObjectStore.Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.ObjectStore)
		if err == nil {
			logger.GetLogger().WithField("bucket", cfg.ObjectStore.Bucket).Info("S3 blob store initialized")
			return s3Store, ""
		}
		logger.GetLogger().WithField("error", err).Warn("S3 not available - storing media locally")
	}

	dir := filepath.Join(cfg.App.UploadDir, "streamhub-media")
	local, err := storage.NewLocalStore(dir, localMediaRoute)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot create local media directory")
	}
	return local, dir
}

// InitiatePublisher builds the event publisher for events.provider. Events are disabled when it is "none" or unreachable.
func InitiatePublisher(ctx context.Context, events configuration.Events) (repository.IEventPublisher, func()) {
	switch events.Provider {
	case "pubsub":
		client, err := pubsub.NewPubSub(ctx, events.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
			break
		}
		publisher := pubsub.NewEventPubSub(client, events.Topic)
		return publisher, func() { _ = publisher.Close() }

	case "servicebus":
		client, err := servicebus.NewServiceBus(events.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without events")
			break
		}
		publisher, err := servicebus.NewEventServiceBus(client, events.QueueName)
		if err != nil {
			_ = client.Close(ctx)
			break
		}
		return publisher, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = publisher.Close(closeCtx)
			_ = client.Close(closeCtx)
		}
	}

	logger.GetLogger().WithField("provider", events.Provider).Info("Domain events disabled")
	return nil, func() {}
}
