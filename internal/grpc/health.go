package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServer serves grpc.health.v1 for this process. The status of
// serviceName follows the result of a periodic ping.
type HealthServer struct {
	server      *grpc.Server
	health      *health.Server
	serviceName string
	ping        func(ctx context.Context) error
}

func NewHealthServer(serviceName string, ping func(ctx context.Context) error) *HealthServer {
	s := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	return &HealthServer{
		server:      s,
		health:      h,
		serviceName: serviceName,
		ping:        ping,
	}
}

// Check runs one ping and updates the serving status.
func (s *HealthServer) Check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.ping(ctx); err != nil {
		log.Warn().Err(err).Msg("dependency ping failed, reporting NOT_SERVING")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(s.serviceName, status)
	s.health.SetServingStatus("", status)
}

// Watch checks every interval until ctx is done.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(ctx, interval/2)
		s.Check(pingCtx)
		cancel()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Serve blocks serving on port.
func (s *HealthServer) Serve(port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	log.Info().Str("port", port).Msg("starting gRPC health server")
	return s.server.Serve(listener)
}

func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// Health exposes the underlying health service.
func (s *HealthServer) Health() healthpb.HealthServer {
	return s.health
}
