package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/status-im/token-aggregator/config"
	"github.com/status-im/token-aggregator/core"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration; run with defaults when no file is present
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal("Error loading config: ", err)
		}
		log.Printf("Config file %s not found, using defaults", *configPath)
		cfg = config.DefaultConfig()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping services...")
		cancel()
	}()

	registry, err := core.Setup(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to set up services: ", err)
	}

	if err := registry.StartAll(ctx); err != nil {
		log.Fatal("Failed to start services: ", err)
	}

	<-ctx.Done()
	registry.StopAll()
}
