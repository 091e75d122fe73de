package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-backend/config"
	"catalog-backend/internal/delivery/http/middleware"
	v1 "catalog-backend/internal/delivery/http/v1"
	infracache "catalog-backend/internal/infrastructure/cache"
	"catalog-backend/internal/infrastructure/notify"
	"catalog-backend/internal/repository/pgrepo"
	"catalog-backend/internal/usecase"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/logger"
	"catalog-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	rd "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	pgxPool, err := pgrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Connected to PostgreSQL")

	cacheSvc := newCacheService(cfg)
	productRepo := pgrepo.NewProductRepository(pgxPool)
	queue := notify.NewNoopQueue()

	catalogUC := usecase.NewCatalogUsecase(productRepo, cacheSvc, queue, cfg)
	catalogHandler := v1.NewCatalogHandler(catalogUC)

	mux := http.NewServeMux()

	// Catalog
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct)
	mux.HandleFunc("GET /api/v1/products/{id}/cached_detail", catalogHandler.GetProductCached)
	mux.HandleFunc("POST /api/v1/products", catalogHandler.CreateProduct)
	mux.HandleFunc("PUT /api/v1/products/{id}", catalogHandler.UpdateProduct)
	mux.HandleFunc("PATCH /api/v1/products/{id}", catalogHandler.PatchProduct)
	mux.HandleFunc("DELETE /api/v1/products/{id}", catalogHandler.DeleteProduct)
	mux.HandleFunc("POST /api/v1/products/{id}/notify_update", catalogHandler.NotifyUpdate)

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler)

	addr := fmt.Sprintf(":%s", cfg.Port)

	floodGuard := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.FloodRatePerSec),
		cfg.FloodBurst,
		time.Minute,
		3*time.Minute,
	)

	throttle := middleware.NewClassThrottle(cfg.ThrottleWindow, middleware.ClassLimits(cfg))

	var handler http.Handler = mux
	handler = middleware.NewCORSMiddleware(cfg)(handler)
	handler = middleware.RequestLogger(handler)
	handler = throttle.Middleware()(handler)
	handler = middleware.Identity(handler)
	handler = floodGuard.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()
	logger.ServiceStart("catalog-backend", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	floodGuard.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	pgxPool.Close()

	logger.ServiceStop("catalog-backend")
}

// newCacheService picks the cache backend from config. Redis failures only
// degrade reads to store hits, so a missing Redis does not stop startup.
func newCacheService(cfg *config.Config) cache.Service {
	if cfg.CacheBackend == "redis" {
		client := rd.NewClient(&rd.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return infracache.NewRedisCache(client)
	}
	return infracache.NewMemoryCache(cfg.CacheDetailTTL, 10*time.Minute)
}
