// Package server boots the process: configuration, database, cache,
// storage, the HTTP kernel, and the optional gRPC ops listener. It owns
// the lifecycle of every shared resource and injects handles downward;
// no component reaches for a global.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/stockledger/app/routes"
	"github.com/shashiranjanraj/stockledger/config"
	"github.com/shashiranjanraj/stockledger/pkg/advisory"
	"github.com/shashiranjanraj/stockledger/pkg/cache"
	"github.com/shashiranjanraj/stockledger/pkg/database"
	appgrpc "github.com/shashiranjanraj/stockledger/pkg/grpc"
	"github.com/shashiranjanraj/stockledger/pkg/logger"
	"github.com/shashiranjanraj/stockledger/pkg/metrics"
	"github.com/shashiranjanraj/stockledger/pkg/middleware"
	"github.com/shashiranjanraj/stockledger/pkg/reqid"
	"github.com/shashiranjanraj/stockledger/pkg/router"
	"github.com/shashiranjanraj/stockledger/pkg/storage"
	"github.com/shashiranjanraj/stockledger/pkg/workerpool"
	"gorm.io/gorm"
)

const statsPoolSize = 16

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	mongoSink := logger.EnableMongoSink()
	if mongoSink != nil {
		defer mongoSink.Close()
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		// Cache misses degrade to DB reads; boot continues.
		logger.Warn("cache unavailable, continuing without it", "error", err)
	}

	storage.Connect()

	pool := workerpool.New(statsPoolSize)
	defer pool.Shutdown()

	handler := buildHandler(db, pool, advisory.NewOpenAIClient())

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var grpcStop func()
	if port := config.GRPCPort(); port != "" {
		srv, _, err := appgrpc.Start(port)
		if err != nil {
			return err
		}
		grpcStop = func() { appgrpc.Stop(srv) }
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case sig := <-stop:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if grpcStop != nil {
		grpcStop()
	}
	if err := httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// BuildRouter constructs the full routed application for the given
// dependencies. Exposed separately so the CLI can print routes and tests
// can mount the whole surface without a listener.
func BuildRouter(db *gorm.DB, pool *workerpool.Pool, advisor advisory.Client) *router.Router {
	r := router.New()

	// Global middleware, outermost first: metrics wraps everything so
	// latencies are honest, recovery catches panics from the rest, then
	// request IDs and logging, then CORS and rate limiting.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	r.HandleFunc("/metrics", metrics.Handler())

	routes.RegisterAPI(r, db, pool, advisor)
	return r
}

func buildHandler(db *gorm.DB, pool *workerpool.Pool, advisor advisory.Client) http.Handler {
	return BuildRouter(db, pool, advisor).Handler()
}
