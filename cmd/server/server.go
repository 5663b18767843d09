package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	v1 "github.com/KirkDiggler/rpg-lore/internal/handlers/http/v1"
)

// healthService is the gRPC health name reported for the HTTP API
const healthService = "rpglore.v1.ReferenceService"

var (
	httpAddr string
	grpcPort int
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API and gRPC health server",
	Long:  `Start the rpg-lore HTTP API with rendering, reference, dice and tooltip session routes.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides config)")
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC health server port (overrides config)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("http-addr") {
		cfg.HTTP.Address = httpAddr
	}
	if cmd.Flags().Changed("port") {
		cfg.GRPC.Port = grpcPort
	}
	logger := slog.Default()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal, gracefully stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, err := v1.NewHandler(&v1.HandlerConfig{
		Markup:    a.markup,
		Resolver:  a.resolver,
		Renderer:  a.registry,
		Processor: a.processor,
		Dice:      a.dice,
		Sessions:  a.sessions,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create http handler: %w", err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTP.Address)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if !cfg.GRPC.Disabled {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}

		grpcSrv = newGRPCServer(logger)
		go func() {
			logger.Info("grpc health server starting", "port", cfg.GRPC.Port)
			if err := grpcSrv.Serve(lis); err != nil {
				errChan <- fmt.Errorf("failed to serve grpc: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errChan:
		cancel()
		shutdown(logger, httpSrv, grpcSrv)
		return err
	}

	shutdown(logger, httpSrv, grpcSrv)
	return nil
}

func newGRPCServer(logger *slog.Logger) *grpc.Server {
	logOpts := []grpc_logging.Option{
		grpc_logging.WithLogOnEvents(grpc_logging.StartCall, grpc_logging.FinishCall),
	}
	recoveryOpts := []grpc_recovery.Option{
		grpc_recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
			logger.ErrorContext(ctx, "grpc handler panic", "panic", p)
			return fmt.Errorf("internal error")
		}),
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(logger), logOpts...),
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(logger), logOpts...),
			grpc_recovery.StreamServerInterceptor(recoveryOpts...),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)
	return srv
}

// interceptorLogger bridges grpc middleware logging into slog
func interceptorLogger(l *slog.Logger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(level), msg, fields...)
	})
}

func shutdown(logger *slog.Logger, httpSrv *http.Server, grpcSrv *grpc.Server) {
	logger.Info("shutting down servers")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}

	if grpcSrv == nil {
		return
	}
	stopped := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("graceful shutdown timeout exceeded, forcing stop")
		grpcSrv.Stop()
	case <-stopped:
		logger.Info("servers stopped gracefully")
	}
}
