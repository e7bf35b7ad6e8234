package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/siswa/internal/app"
	"github.com/five82/siswa/internal/config"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/server"
	"github.com/five82/siswa/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	driver := flag.String("driver", "", "store driver: memory, sqlite or postgres (optional)")
	listen := flag.String("listen", "", "listen address (optional)")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath, *driver, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "siswad: %v\n", err)
		return 1
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	// The client's default driver talks to this server; the server itself
	// needs a real store.
	if cfg.Driver == config.DriverRemote {
		cfg.Driver = config.DriverSQLite
	}

	log := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat).With("component", "siswad")
	log.Info("app: starting", "driver", cfg.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backing, err := app.OpenStore(cfg)
	if err != nil {
		log.Error("app: init failed", "err", err)
		return 1
	}
	watched := store.Watch(backing)

	srv := server.New(cfg.Listen, server.NewRouter(watched, log))
	// Pending long polls return as soon as shutdown starts.
	srv.BaseContext = func(net.Listener) context.Context { return ctx }
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Error("http: server failed", "addr", srv.Addr, "err", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		exitCode = 1
	}

	if err := watched.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		exitCode = 1
	}

	if exitCode == 0 {
		log.Info("app: stopped")
	}
	return exitCode
}
