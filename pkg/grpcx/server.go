// Package grpcx builds the gRPC server that exposes the standard health and
// reflection services next to the HTTP API.
package grpcx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server is a gRPC server with health and reflection registered.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates a server. A non-nil tlsConfig enables TLS credentials.
func NewServer(tlsConfig *tls.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []grpc.ServerOption
	if tlsConfig != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(tlsConfig)))
	}
	s := grpc.NewServer(opts...)

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(s)

	return &Server{grpc: s, health: hs, logger: logger}
}

// Serve accepts connections on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("grpc server listening", "address", lis.Addr().String())
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc server failed: %w", err)
	}
	return nil
}

// ListenAndServe listens on addr and serves until Stop.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// Watch reports NOT_SERVING while check fails, polling every interval until
// ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.health.SetServingStatus("", s.status(ctx, check))
		}
	}
}

func (s *Server) status(ctx context.Context, check func(context.Context) error) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if err := check(ctx); err != nil {
		s.logger.Warn("health check failed", "error", err)
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

// Stop marks the server not serving and stops it gracefully.
func (s *Server) Stop() {
	s.logger.Info("shutting down grpc server")
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
