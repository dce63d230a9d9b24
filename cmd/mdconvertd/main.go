// Command mdconvertd serves the converter over HTTP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	mdconvert "github.com/TimothySu2015/md-converter"
	"github.com/TimothySu2015/md-converter/internal/api"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	port := os.Getenv("MDCONVERTD_PORT")
	if port == "" {
		port = "8080"
	}

	timeout := 60 * time.Second
	if v := os.Getenv("MDCONVERTD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}

	workers := 0
	if v := os.Getenv("MDCONVERTD_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	pool := mdconvert.NewServicePool(
		mdconvert.ResolvePoolSize(workers),
		mdconvert.WithTimeout(timeout),
	)

	srv := api.NewServer(pool, log, timeout)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)

		pool.Close()
	}()

	log.Info("starting mdconvertd", "port", port, "pool_size", pool.Size())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
