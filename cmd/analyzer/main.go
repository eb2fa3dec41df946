package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	app_service "wallet-profiler/internal/application/service"
	"wallet-profiler/internal/domain/repository"
	domain_service "wallet-profiler/internal/domain/service"
	"wallet-profiler/internal/infrastructure/config"
	"wallet-profiler/internal/infrastructure/logger"
	"wallet-profiler/internal/infrastructure/messaging"
	"wallet-profiler/internal/infrastructure/reference"
	"wallet-profiler/internal/infrastructure/server"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.NewLogger(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create FX application
	app := fx.New(
		// Provide dependencies
		fx.Supply(cfg),
		fx.Supply(log),
		fx.Supply(&cfg.NATS),
		fx.Supply(&cfg.Server),
		fx.Supply(&cfg.Analysis),
		fx.Provide(func() *zap.Logger { return log.Logger }),

		// Reference data: loaded once at startup, fatal when unavailable
		fx.Provide(
			reference.NewLists,
			func(l *reference.Lists) repository.ReferenceRepository { return l },
		),

		// Domain services
		fx.Provide(
			domain_service.NewClassifierService,
			domain_service.NewMetricsService,
			domain_service.NewConnectionsService,
		),

		// Application and transport providers
		fx.Provide(
			app_service.NewAnalysisService,
			messaging.NewAnalysisConsumer,
			server.NewHTTPServer,
		),

		// Lifecycle hooks
		fx.Invoke(startMessagingWorkers),
		fx.Invoke(startHTTPServer),

		// Configure logging
		fx.WithLogger(func() fxevent.Logger {
			return fxevent.NopLogger
		}),
	)

	// Start the application
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Error("Failed to start application", zap.Error(err))
		os.Exit(1)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down application...")

	// Stop the application
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}

// startMessagingWorkers connects the NATS consumer and runs the analysis
// worker pool over its request channel.
func startMessagingWorkers(
	lifecycle fx.Lifecycle,
	consumer *messaging.AnalysisConsumer,
	analysis *app_service.AnalysisService,
	log *zap.Logger,
	cfg *config.Config,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.NATS.Enabled {
				log.Info("NATS transport disabled, serving HTTP only")
				return nil
			}

			log.Info("NATS configuration",
				zap.String("url", cfg.NATS.URL),
				zap.String("stream_name", cfg.NATS.StreamName),
				zap.String("analyze_subject", cfg.NATS.AnalyzeSubject),
				zap.String("report_subject", cfg.NATS.ReportSubject))

			if err := consumer.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}

			go processRequests(consumer, analysis, log, cfg.NATS.WorkerPoolSize)

			log.Info("Messaging workers started successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if !cfg.NATS.Enabled {
				return nil
			}
			log.Info("Stopping messaging workers...")
			return consumer.Disconnect()
		},
	})
}

// startHTTPServer runs the HTTP API with graceful shutdown.
func startHTTPServer(
	lifecycle fx.Lifecycle,
	srv *server.HTTPServer,
) {
	lifecycle.Append(fx.Hook{
		OnStart: srv.Start,
		OnStop:  srv.Shutdown,
	})
}

// processRequests fans queued analysis requests out to a worker pool. Each
// analysis is independent, so workers share nothing but the immutable
// reference lists.
func processRequests(
	consumer *messaging.AnalysisConsumer,
	analysis *app_service.AnalysisService,
	log *zap.Logger,
	workers int,
) {
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log.Info("Starting analysis worker", zap.Int("worker_id", workerID))

			for req := range consumer.Requests() {
				result := &messaging.AnalysisResult{RequestID: req.RequestID}

				report, err := analysis.Analyze(context.Background(), req.Wallet)
				if err != nil {
					log.Warn("Analysis request failed",
						zap.String("request_id", req.RequestID),
						zap.Int("worker_id", workerID),
						zap.Error(err))
					result.Error = err.Error()
				} else {
					result.Report = report
				}

				if err := consumer.PublishResult(result); err != nil {
					log.Error("Failed to publish analysis result",
						zap.String("request_id", req.RequestID),
						zap.Error(err))
				}
			}
		}(i)
	}

	wg.Wait()
	log.Info("Analysis workers stopped")
}
