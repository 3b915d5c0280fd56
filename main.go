package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skyquery/skyquery/bootstrap"
	"github.com/skyquery/skyquery/config"
	"github.com/skyquery/skyquery/log"
	"github.com/skyquery/skyquery/server"
)

func main() {
	// .env is optional, envs may come from the host
	_ = godotenv.Load()

	// Initialize logging
	log.Init()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info(context.Background(), "Program terminated externally. Exiting...")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}
	log.SetLevelName(cfg.Server.LogLevel)

	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(context.Background(), "Setup failed: %v", err)
	}

	switch cfg.Server.ConnectionType {
	case "stdio":
		if err := server.NewStdio(app.Registry).Run(ctx); err != nil && err != context.Canceled {
			log.Fatalf(context.Background(), "stdio transport failed: %v", err)
		}
	case "http":
		if err := server.NewHTTP(app.Registry, cfg.Server.Port).Start(ctx); err != nil {
			log.Fatalf(context.Background(), "Server failed: %v", err)
		}
	default:
		log.Fatalf(context.Background(), "unknown CONNECTION_TYPE %q (want http or stdio)", cfg.Server.ConnectionType)
	}
}
