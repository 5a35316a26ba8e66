package main

import (
	"context"
	"fmt"
	"learning-lab/infrastructure/grpc/server"
	"learning-lab/internal"
	"learning-lab/observability"
	"learning-lab/runtime"
	"learning-lab/runtime/workers"
	"learning-lab/services"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Deferred cleanups run before the process exits, which os.Exit or panic would skip.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Chat relay & calculator
	registry := runtime.NewRegistry()
	stats := observability.NewChatStats()
	chatService := services.NewChatService(log, registry, stats)
	calculatorService := services.NewCalculatorService(config.LegacyTrailingFactor)

	// 4. Supervised background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewReporterWorker(log, stats, registry, config.ReportInterval))
	sup.Add(workers.NewBacklogWorker(log, registry, config.BacklogInterval, config.BacklogWarnRatio))
	supervised := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervised)
	}()
	defer func() {
		sup.Stop()
		<-supervised
	}()

	if config.DebugPort > 0 {
		internal.StartDebugServer(ctx, log, config.DebugPort,
			internal.NewDebugHandler(chatService.Participants, stats.Snapshot))
	}

	// 5. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	learningServer := server.NewLearningServer(log, chatService, calculatorService, config.ConnectionBufferSize)
	s := server.NewGRPCServer(log, learningServer)

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && err != grpc.ErrServerStopped {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	// Open chat streams never end on their own, so graceful stop is bounded.
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		log.Warn("Graceful stop timed out, closing remaining streams")
		s.Stop()
	}
	log.Info("Program stopped cleanly")

	return nil
}
