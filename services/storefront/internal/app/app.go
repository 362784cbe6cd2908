package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	platformhealth "github.com/shestoi/GoBigTech/platform/health/http"
	platformlogging "github.com/shestoi/GoBigTech/platform/logging"
	platformobservability "github.com/shestoi/GoBigTech/platform/observability"
	platformshutdown "github.com/shestoi/GoBigTech/platform/shutdown"
	httpapi "github.com/shestoi/GoBigTech/services/storefront/internal/api/http"
	"github.com/shestoi/GoBigTech/services/storefront/internal/config"
	eventkafka "github.com/shestoi/GoBigTech/services/storefront/internal/event/kafka"
	"github.com/shestoi/GoBigTech/services/storefront/internal/metrics"
	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
	"github.com/shestoi/GoBigTech/services/storefront/internal/repository/memory"
	repomongo "github.com/shestoi/GoBigTech/services/storefront/internal/repository/mongo"
	reporedis "github.com/shestoi/GoBigTech/services/storefront/internal/repository/redis"
	"github.com/shestoi/GoBigTech/services/storefront/internal/service"
)

// connectTimeout ограничивает подключение к MongoDB и Redis при старте
const connectTimeout = 10 * time.Second

// App содержит все зависимости для запуска и корректного shutdown Storefront Service
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// publisher - service.EventPublisher, который закрывается при shutdown
type publisher interface {
	service.EventPublisher
	Close() error
}

// Build создаёт и настраивает все зависимости Storefront Service
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "storefront",
		Env:         string(cfg.AppEnv),
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return nil, err
	}
	cfg.Log(logger)

	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)
	// при ошибке сборки освобождаем всё, что уже успели открыть
	fail := func(err error) (*App, error) {
		_ = shutdownMgr.Shutdown()
		return nil, err
	}

	otelShutdown, err := platformobservability.Init(ctx, platformobservability.Config{
		Enabled:               cfg.OTelEnabled,
		OTLPEndpoint:          cfg.OTelEndpoint,
		SamplingRatio:         cfg.OTelSamplingRatio,
		ServiceName:           "storefront",
		DeploymentEnvironment: string(cfg.AppEnv),
	})
	if err != nil {
		return fail(fmt.Errorf("init observability: %w", err))
	}
	shutdownMgr.Add("otel", otelShutdown)

	checks := make(map[string]platformhealth.Check)

	var (
		productRepo repository.ProductRepository
		cartRepo    repository.CartRepository
	)
	switch cfg.StorageDriver {
	case config.StorageMongo:
		logger.Info("Connecting to MongoDB", zap.String("db", cfg.MongoDBName))
		client, err := connectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return fail(err)
		}
		shutdownMgr.Add("mongo_client", platformshutdown.DisconnectMongo(client))
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		logger.Info("MongoDB connection established")

		db := client.Database(cfg.MongoDBName)
		productRepo = repomongo.NewProductRepository(db, cfg.MongoOpTimeout)
		cartRepo = repomongo.NewCartRepository(db, cfg.MongoOpTimeout)
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		productRepo = memory.NewProductRepository()
		cartRepo = memory.NewCartRepository()
	default:
		return fail(fmt.Errorf("unknown storage driver %q", cfg.StorageDriver))
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// кэш необязателен: обёртка сама уходит в хранилище, пока Redis недоступен
			logger.Warn("Redis is unavailable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		shutdownMgr.Add("redis_client", platformshutdown.Close(client))
		productRepo = reporedis.NewCachedProductRepository(productRepo, client, cfg.ProductCacheTTL, logger)
		logger.Info("Product cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.ProductCacheTTL))
	}

	var events publisher
	if cfg.Kafka.Enabled {
		events = eventkafka.NewEventPublisher(logger, cfg.Kafka)
		logger.Info("Kafka publisher enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		events = eventkafka.NewNopPublisher(logger)
	}
	shutdownMgr.Add("kafka_publisher", platformshutdown.Close(events))

	recorder, err := metrics.NewRecorder()
	if err != nil {
		return fail(err)
	}

	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, events, recorder, logger, cfg.CompensateStock)

	handler := httpapi.NewHandler(productService, cartService, logger)
	router := httpapi.NewRouter(handler, checks, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	// регистрируется последним, значит останавливается первым
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		shutdownMgr: shutdownMgr,
	}, nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Run запускает HTTP сервер и блокируется до сигнала shutdown или отмены ctx
func (a *App) Run(ctx context.Context) error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting Storefront service", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", zap.Error(err))
			serveErr <- err
			cancel()
		}
	}()

	shutdownErr := a.shutdownMgr.Wait(ctx)
	a.wg.Wait()
	a.logger.Info("Storefront service stopped")

	select {
	case err := <-serveErr:
		return errors.Join(err, shutdownErr)
	default:
		return shutdownErr
	}
}
