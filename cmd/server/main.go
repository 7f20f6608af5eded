package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thisisjab/arrowjq/api"
	"github.com/thisisjab/arrowjq/config"
	"github.com/thisisjab/arrowjq/engine"
)

type service interface {
	Serve(ctx context.Context) error
}

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())

	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: cannot create logger: %v\n", err)
		os.Exit(1)
	}

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			logger.Error("server panic", "error", r)
		}
	}()

	// Setup signal handling to catch Ctrl+C (SIGINT) or Terminate (SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received signal. shutting down.", "signal", sig)
		cancel()
	}()

	server, err := newService(cfg, logger)
	if err != nil {
		logger.Error("server error.", "error", err)
		os.Exit(1)
	}

	if err := server.Serve(ctx); err != nil {
		logger.Error("server error.", "error", err)
		cancel()
		os.Exit(1)
	}

	logger.Info("server stopped.", slog.String("addr", cfg.Server.Addr))
}

// loadConfig reads path, or returns the defaults when no path is given.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newService(cfg config.Config, logger *slog.Logger) (service, error) {
	eng, err := engine.New(cfg.Batch, logger)
	if err != nil {
		return nil, fmt.Errorf("cannot create engine: %w", err)
	}

	server, err := api.NewServer(cfg.Server, logger, eng)
	if err != nil {
		return nil, fmt.Errorf("cannot create server: %w", err)
	}

	return server, nil
}
