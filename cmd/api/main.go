package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/chuanglan-sms/internal/cache/redis"
	"github.com/oggyb/chuanglan-sms/internal/config"
	"github.com/oggyb/chuanglan-sms/internal/handler"
	"github.com/oggyb/chuanglan-sms/internal/metrics"
	routes "github.com/oggyb/chuanglan-sms/internal/router"
	"github.com/oggyb/chuanglan-sms/internal/scheduler"
	"github.com/oggyb/chuanglan-sms/internal/server"
	"github.com/oggyb/chuanglan-sms/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title       Chuanglan SMS Gateway API
// @version     1.0
// @description Sends SMS through the Chuanglan (253) gateway and reports the remaining quota.
// @host        localhost:8080
// @BasePath    /
func main() {
	// Base context for the whole application lifetime.
	rootCtx := context.Background()

	// Load configuration from environment/.env.
	cfg := config.New()
	if cfg.SMS.Account == "" || cfg.SMS.Password == "" {
		log.Fatal("SMS_ACCOUNT and SMS_PASSWORD must be set")
	}

	// Init cache.
	cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(rootCtx); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	// Init SMS gateway client, instrumented.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	smsClient := metrics.NewClient(cfg.NewGatewayClient(), reg)

	// Init services.
	msgSvc := service.NewMessageService(
		smsClient,
		cache,
		cfg.Quota.CacheTTL,
		cfg.Quota.LowWatermark,
	)

	// Quota watcher
	watcher := scheduler.NewQuotaWatcher(
		msgSvc,
		cfg.Scheduler.Interval,
		cfg.Scheduler.BatchTimeout,
	)

	// HTTP dependencies & server wiring.
	homeHandler := handler.NewHomeHandler(map[string]handler.Pinger{"redis": cache})
	messageHandler := handler.NewMessageHandler(msgSvc, watcher)

	deps := routes.AppDeps{
		Home:    homeHandler,
		Message: messageHandler,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}

	addr := fmt.Sprintf("%s:%s", cfg.API.Host, cfg.API.Port)
	srv := server.New(addr, deps)

	// Create a context that is cancelled on SIGINT/SIGTERM (Ctrl+C, docker stop etc.).
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("HTTP server listening on %s", addr)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Warm the quota cache once, then keep it fresh.
	if err := msgSvc.RefreshQuota(rootCtx); err != nil {
		log.Printf("[Main] Initial quota refresh failed: %v", err)
	}
	if err := watcher.Start(); err != nil {
		log.Fatalf("Quota watcher error: %v", err)
	}
	log.Println("[Main] Quota watcher started.")

	<-ctx.Done()
	log.Println("[Main] Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("[Main] Stopping quota watcher...")
	if err := watcher.Stop(); err != nil {
		log.Printf("[Main] Quota watcher could not be stopped: %v", err)
	}

	log.Println("[Main] Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] HTTP server graceful shutdown failed: %v", err)
	} else {
		log.Println("[Main] HTTP server stopped.")
	}

	log.Println("[Main] Shutdown complete.")
}
