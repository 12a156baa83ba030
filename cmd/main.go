package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"jpashop/internal/caching"
	"jpashop/internal/config"
	"jpashop/internal/handlers"
	"jpashop/internal/jobs/background"
	"jpashop/internal/metrics"
	"jpashop/internal/middleware"
	"jpashop/internal/services"
	"jpashop/pkg/database"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Server stopped")
}

// run owns every resource it opens, so deferred cleanup happens before main
// exits on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	var orderCache caching.OrderCache
	if cfg.Loader.CacheTTL > 0 && cfg.Redis.Addr != "" {
		redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()
		orderCache = caching.NewRedisOrderCache(redisClient, cfg.Loader.CacheTTL)
	} else {
		log.Println("Order cache disabled")
	}

	loaderMetrics := metrics.NewLoaderMetrics(prometheus.DefaultRegisterer)

	orderSvc := services.NewOrderQueryService(pool, services.OrderQueryConfig{
		ItemBatchSize:    cfg.Loader.ItemBatchSize,
		QueryTimeout:     cfg.Loader.QueryTimeout,
		DefaultPageLimit: cfg.Loader.DefaultPageLimit,
	}, orderCache, loaderMetrics)

	if orderCache != nil && cfg.Loader.CacheWarmInterval > 0 {
		scheduler, err := background.NewJobScheduler(orderSvc, orderCache, cfg.Loader.CacheWarmInterval, cfg.Loader.DefaultPageLimit)
		if err != nil {
			return fmt.Errorf("create job scheduler: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, orderCache)

	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	healthHandlers.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	orderHandlers.RegisterRoutes(versionMiddleware.VersionRoute(e, "v1"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("jpashop order query server v%s starting on port %d", version, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
