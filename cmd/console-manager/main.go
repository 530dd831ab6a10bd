// cmd/console-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"partner-console/internal/common/api"
	"partner-console/internal/common/config"
	"partner-console/internal/common/database"
	"partner-console/internal/common/logger"
	"partner-console/internal/common/observability"
	"partner-console/internal/console/amenities"
	"partner-console/internal/console/branches"
	"partner-console/internal/console/draftcache"
	"partner-console/internal/console/locations"
	"partner-console/internal/console/offers"
	"partner-console/internal/console/providers"
	"partner-console/internal/console/reservations"
	"partner-console/internal/console/team"
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
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting console manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("console-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry (optional; caches degrade without it) ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Redis disabled, reference caches run backend-only")
	}

	// --- Session & API Client ---
	sessions := api.NewFileSessionStore(cfg.Session.Dir, config.SessionKey(cfg.App))
	if sessions.Token() == "" {
		zapLog.Warn("No session token found; every request will demand login",
			zap.String("session_dir", cfg.Session.Dir),
			zap.String("session_key", config.SessionKey(cfg.App)),
		)
	}

	client := api.NewClient(cfg.API, sessions, log)
	zapLog.Info("API client initialized", zap.String("base_url", cfg.API.BaseURL))

	// --- Draft Cache ---
	drafts, err := newDraftStore(cfg, redisClient, log)
	if err != nil {
		zapLog.Fatal("draft cache init failed", zap.Error(err))
	}
	zapLog.Info("Draft cache initialized", zap.String("backend", cfg.Drafts.Backend))

	// --- Screen Services ---
	locationSvc := locations.NewService(client, log)
	amenitySvc := amenities.NewService(client, redisClient, time.Duration(cfg.Drafts.TTL)*time.Second, log)
	providerSvc := providers.NewService(client, log)
	branchSvc := branches.NewService(client, log)
	offerSvc := offers.NewService(client, drafts, log)
	reservationSvc := reservations.NewService(client, log)
	teamSvc := team.NewService(client, log)

	zapLog.Info("All screen services initialized")

	// --- Screen Bridge ---
	var bridgeSrv *http.Server
	if cfg.Bridge.Enabled {
		mux := http.NewServeMux()
		br := newBridge(bridgeServices{
			locations:    locationSvc,
			amenities:    amenitySvc,
			providers:    providerSvc,
			branches:     branchSvc,
			offers:       offerSvc,
			reservations: reservationSvc,
			team:         teamSvc,
		}, obs, log)
		br.register(mux)

		bridgeSrv = &http.Server{Addr: cfg.Bridge.Address, Handler: mux}
		go func() {
			zapLog.Info("Screen bridge listening", zap.String("address", cfg.Bridge.Address))
			if err := bridgeSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zapLog.Error("Screen bridge failed", zap.Error(err))
			}
		}()
	}

	// --- Health & Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "healthy",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				status := "ready"
				code := http.StatusOK
				if sessions.Token() == "" {
					status = "login required"
					code = http.StatusServiceUnavailable
				}
				w.WriteHeader(code)
				json.NewEncoder(w).Encode(map[string]string{
					"status": status,
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping console manager...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if bridgeSrv != nil {
		if err := bridgeSrv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Screen bridge shutdown failed", zap.Error(err))
		}
	}

	zapLog.Info("Console manager stopped gracefully")
}

// newDraftStore selects the draft-cache backend from configuration.
func newDraftStore(cfg *config.Config, redisClient *database.RedisClient, log logger.Logger) (draftcache.Store, error) {
	switch cfg.Drafts.Backend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("drafts backend is redis but redis is disabled")
		}
		return draftcache.NewRedisStore(redisClient.Client, time.Duration(cfg.Drafts.TTL)*time.Second), nil
	case "memory":
		return draftcache.NewMemoryStore(), nil
	default:
		return draftcache.NewFileStore(cfg.Drafts.Path, log)
	}
}
