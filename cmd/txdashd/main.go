package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"txDashApp/config"
	"txDashApp/internal/app"
	"txDashApp/internal/app/dto"
	httphandlers "txDashApp/internal/handlers/http"
	"txDashApp/pkg/utils"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	// Number of transactions published on startup to pre-fill the feed
	seedBatchSize = 20
)

func main() {
	cfg := config.LoadConfig()
	log := setupLogger(cfg.Env)

	// Create cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutting down...")
		cancel()
	}()

	// Initialize app
	log.Info("Initializing app...")
	application, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to initialize app: %v", err))
		os.Exit(1)
	}

	// Start event processor
	log.Info("Starting event processor...")
	go application.EventProcessor.Run(ctx)

	// Demo transaction generator: one random transaction every 0.5-3s,
	// like the live feed a payment switch would deliver
	if cfg.GeneratorEnabled {
		go runGenerator(ctx, log, application)
	}

	// Set up HTTP server
	httpAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	httpServer := httphandlers.NewServer(httpAddr, application.Authenticator, application.TxService, application.Broadcaster)

	// Start HTTP server in a goroutine
	go func() {
		log.Info(fmt.Sprintf("HTTP server listening on %s", httpAddr))
		if err := httpServer.Start(); err != nil {
			log.Info(fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	// Clean up app resources
	log.Info("Cleaning up app resources...")
	application.Cleanup(ctx)

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server with timeout
	log.Info("Shutting down HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Info(fmt.Sprintf("HTTP server shutdown error: %v", err))
	}

	log.Info("Service stopped.")
}

// runGenerator feeds random transactions into the pipeline until the context
// is cancelled. With Kafka enabled the events take the full broker round trip;
// otherwise they go straight to the processor channel.
func runGenerator(ctx context.Context, log *slog.Logger, application *app.AppContext) {
	log.Info("Starting transaction generator...")
	generator := utils.NewTransactionGenerator()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Seed the topic with an initial batch so dashboards that connect right
	// after startup see history instead of an empty feed
	if application.KafkaProducer != nil {
		seed := dto.FromModels(generator.GenerateTransactions(seedBatchSize))
		if err := application.KafkaProducer.PublishTransactionBatch(ctx, seed); err != nil && ctx.Err() == nil {
			log.Error(fmt.Sprintf("Failed to publish seed batch: %v", err))
		}
	}

	for ctx.Err() == nil {
		tx := generator.GenerateTransaction()

		if application.KafkaProducer != nil {
			if err := application.KafkaProducer.PublishTransaction(ctx, tx); err != nil && ctx.Err() == nil {
				log.Error(fmt.Sprintf("Failed to publish transaction: %v", err))
			}
		} else {
			select {
			case <-ctx.Done():
			case application.TxCh <- dto.FromModel(tx):
			}
		}

		// Random delay between transactions, 500ms to 3s
		delay := time.Duration(500+rng.Intn(2500)) * time.Millisecond
		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
	}
	log.Info("Transaction generator stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default: // envLocal
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
