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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hatbazar/hatbazar/internal"
	"github.com/hatbazar/hatbazar/internal/cache"
	"github.com/hatbazar/hatbazar/internal/events"
	"github.com/hatbazar/hatbazar/internal/handler/api"
	"github.com/hatbazar/hatbazar/internal/middleware"
	"github.com/hatbazar/hatbazar/internal/mongo"
	"github.com/hatbazar/hatbazar/internal/routes"
	"github.com/hatbazar/hatbazar/internal/service"
	"github.com/hatbazar/hatbazar/internal/sqlite"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Primary marketplace catalog and orders on MongoDB.
	logger.Info().Str("db", cfg.MongoDB).Msg("connecting to mongodb")
	db, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("mongodb connection failed: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(disconnectCtx); err != nil {
			logger.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	productStore := mongo.NewCatalogStore(db)
	orderStore := mongo.NewOrderStore(db)

	// Electronics demo catalog on SQLite.
	logger.Info().Str("path", cfg.SQLitePath).Msg("opening electronics database")
	demoDB, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("sqlite open failed: %w", err)
	}
	electronicsStore := sqlite.NewCatalogStore(demoDB)

	// Listing cache; optional.
	var productCache, electronicsCache *cache.Listing
	if cfg.RedisAddr != "" {
		rdb, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer rdb.Close()
		productCache = cache.NewListing(rdb, cfg.CacheTTL, logger)
		electronicsCache = cache.NewListing(rdb, cfg.CacheTTL, logger)
		logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("listing cache enabled")
	}

	// Event bus; optional.
	var bus *events.Bus
	if cfg.NatsURL != "" {
		bus, err = events.Connect(cfg.NatsURL, logger)
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		defer bus.Close()

		// Drop local listing caches when another instance writes.
		err = bus.SubscribeCatalogChanged(func(ev events.CatalogEvent) {
			switch ev.Catalog {
			case "products":
				productCache.Invalidate(context.Background(), ev.Catalog)
			case "electronics":
				electronicsCache.Invalidate(context.Background(), ev.Catalog)
			}
		})
		if err != nil {
			return fmt.Errorf("nats subscribe failed: %w", err)
		}
		logger.Info().Str("url", cfg.NatsURL).Msg("event bus connected")
	}

	productSvc := service.NewProductService(productStore, productCache, bus, "products", logger)
	electronicsSvc := service.NewProductService(electronicsStore, electronicsCache, bus, "electronics", logger)
	orderSvc := service.NewOrderService(orderStore, productStore, service.DemoPaymentProvider{}, bus, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.ErrorHandler(logger)

	metrics := middleware.NewMetrics("hatbazar")
	e.GET("/metrics", metrics.Handler())

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.WithUser([]byte(cfg.JWTSecret)))
	e.Use(middleware.RequestLogger(logger))
	e.Use(metrics.Middleware())

	routes.Register(e, api.NewHandler(productSvc, electronicsSvc, orderSvc))

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
