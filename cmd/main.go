package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type closer func() error

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	// prices go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	var cleanup []closer
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			if err := cleanup[i](); err != nil {
				log.Warn("cleanup failed", zap.Error(err))
			}
		}
	}()

	reader, closeCatalog, err := buildCatalog(cfg, log)
	cleanup = append(cleanup, closeCatalog...)
	if err != nil {
		return err
	}

	carts := repository.NewMemoryCartRepository()
	orders := repository.NewMemoryOrderRepository()

	var events service.OrderPublisher = publisher.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := publisher.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		outbox := publisher.NewOutbox()
		poller := publisher.NewOutboxPoller(outbox, publisher.NewBreakerPublisher(kafkaPublisher, log), log)

		pollCtx, stopPolling := context.WithCancel(context.Background())
		pollDone := make(chan struct{})
		go func() {
			defer close(pollDone)
			poller.Run(pollCtx)
		}()

		// cleanup runs in reverse: drain the outbox, then close the writer
		cleanup = append(cleanup, kafkaPublisher.Close, func() error {
			stopPolling()
			<-pollDone
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			poller.Flush(ctx)
			return nil
		})

		events = outbox
		log.Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	router := h.NewRouter(h.Deps{
		Logger:          log,
		Env:             cfg.Env,
		Catalog:         reader,
		Carts:           carts,
		CartService:     service.NewCartService(carts, reader, log),
		CheckoutService: service.NewCheckoutService(carts, orders, events, log),
		OrderService:    service.NewOrderService(orders),
		Users:           auth.NewUserStore(),
		Tokens:          auth.NewTokenManager(cfg.JWTSecret),
		CookieSigner:    h.NewCookieSigner(cfg.CookieSecret),
		RequestTimeout:  cfg.RequestTimeout,
		MaxBodySize:     cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("storefront starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

// buildCatalog picks the product source and puts the redis cache in front of
// it when REDIS_ADDR is set.
func buildCatalog(cfg *config.Config, log *zap.Logger) (catalog.Reader, []closer, error) {
	var (
		reader  catalog.Reader
		closers []closer
	)

	switch cfg.CatalogSource {
	case "sqlite":
		sqlReader, err := catalog.NewSQLiteReader(cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open catalog database: %w", err)
		}
		closers = append(closers, sqlReader.Close)
		if err := sqlReader.RunMigrations(cfg.MigrationsPath); err != nil {
			return nil, closers, fmt.Errorf("failed to migrate catalog: %w", err)
		}
		log.Info("catalog loaded from sqlite", zap.String("path", cfg.SQLitePath))
		reader = sqlReader
	default:
		log.Info("catalog loaded from json", zap.String("path", cfg.CatalogPath))
		reader = catalog.NewJSONFileReader(cfg.CatalogPath, log)
	}

	if cfg.RedisAddr == "" {
		return reader, closers, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	closers = append(closers, redisClient.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, closers, fmt.Errorf("redis connection failed: %w", err)
	}
	log.Info("catalog cache enabled", zap.String("redis", cfg.RedisAddr), zap.Duration("ttl", cfg.CatalogCacheTTL))

	return catalog.NewCachedReader(reader, redisClient, cfg.CatalogCacheTTL, log), closers, nil
}
