// cmd/connection-finder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"connection-finder/internal/common/config"
	"connection-finder/internal/common/database"
	"connection-finder/internal/common/logger"
	"connection-finder/internal/common/observability"
	"connection-finder/internal/models"
	"connection-finder/internal/pipeline/cache"
	"connection-finder/internal/pipeline/cost"
	"connection-finder/internal/pipeline/orchestrator"
	"connection-finder/internal/pipeline/ratelimit"
	"connection-finder/internal/sources"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	company := flag.String("company", "", "target company name")
	title := flag.String("title", "", "target job title")
	domain := flag.String("domain", "", "company website domain (optional)")
	noCache := flag.Bool("no-cache", false, "bypass the search cache")
	serve := flag.Bool("serve", false, "keep running and expose metrics after the search")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting connection finder...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("connection-finder")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	var searchCache *cache.Cache
	if err != nil {
		zapLog.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		searchCache = cache.New(redisClient.Client, cfg.Pipeline.CacheTTL)
		zapLog.Info("Redis connected successfully")
	}

	// --- Metrics endpoint ---
	if cfg.App.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.App.MetricsAddr, nil); err != nil {
				zapLog.Error("metrics server stopped", zap.Error(err))
			}
		}()
		zapLog.Info("metrics endpoint listening", zap.String("addr", cfg.App.MetricsAddr))
	}

	// --- Source registry and rate limits ---
	registry := sources.NewRegistry(cfg.Sources)
	registry.Register(sources.NewStaticSource("static", nil))

	limiter := ratelimit.New()
	for name, sc := range cfg.Sources {
		limiter.Configure(name, sc.RateLimit, sc.MaxPerHour)
	}

	finder, err := orchestrator.New(cfg, registry, searchCache, limiter, cost.NewTracker(), obs, log)
	if err != nil {
		zapLog.Fatal("pipeline init failed", zap.Error(err))
	}

	if *company != "" && *title != "" {
		result := finder.FindConnections(ctx, models.SearchQuery{
			Company:  *company,
			Title:    *title,
			Domain:   *domain,
			UseCache: !*noCache,
		})

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			zapLog.Fatal("result encode failed", zap.Error(err))
		}
		fmt.Println(string(out))
	} else if !*serve {
		zapLog.Fatal("usage: connection-finder -company <name> -title <title> [-domain <domain>]")
	}

	if *serve {
		zapLog.Info("connection finder running, press Ctrl+C to exit")
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zapLog.Info("Shutting down...")
	}
}
