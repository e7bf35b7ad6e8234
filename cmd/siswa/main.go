package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/siswa/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	driver := flag.String("driver", "", "gateway driver: remote, memory, sqlite or postgres (optional)")
	apiBind := flag.String("api", "", "siswad host:port for the remote driver (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Driver:     *driver,
		APIBind:    *apiBind,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "siswa: %v\n", err)
		return 1
	}
	return 0
}
