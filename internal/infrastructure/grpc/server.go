package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/kenang-app/kenang-billing/internal/config"
	"github.com/kenang-app/kenang-billing/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Pinger checks a dependency the service cannot serve without.
type Pinger func(ctx context.Context) error

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	server   *grpc.Server
	health   *health.Server
	pinger   Pinger
	listener net.Listener
}

func NewServer(cfg *config.Config, log *zap.Logger, pinger Pinger) *Server {
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(logger.NewGrpcUnaryServerInterceptor(log)),
		grpc.StreamInterceptor(logger.NewGrpcStreamServerInterceptor(log)),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthServer)

	if !cfg.Service.IsProduction() {
		reflection.Register(srv)
	}

	return &Server{
		config: cfg,
		logger: log,
		server: srv,
		health: healthServer,
		pinger: pinger,
	}
}

// RefreshHealth sets the serving status from the pinger.
func (s *Server) RefreshHealth(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if s.pinger != nil {
		if err := s.pinger(ctx); err != nil {
			s.logger.Warn("Dependency check failed, reporting NOT_SERVING", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	return status
}

func (s *Server) Start() error {
	addr := s.config.Server.GRPC.Addr()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return s.Serve(listener)
}

// Serve runs the server on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener
	s.RefreshHealth(context.Background())

	s.logger.Info("Starting gRPC server", zap.String("address", listener.Addr().String()))

	return s.server.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		s.server.Stop()
	}
	return nil
}
