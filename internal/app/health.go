package app

import (
	"context"

	"github.com/appetiteclub/apt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService exposes the standard gRPC health protocol for the floor.
// It reports SERVING only between Start and Stop.
type HealthService struct {
	server  *health.Server
	service string
	logger  apt.Logger
}

func NewHealthService(service string, logger apt.Logger) *HealthService {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthService{server: hs, service: service, logger: logger}
}

func (h *HealthService) RegisterGRPCService(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

func (h *HealthService) Start(ctx context.Context) error {
	h.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.server.SetServingStatus(h.service, healthpb.HealthCheckResponse_SERVING)
	h.logger.Info("grpc health serving", "service", h.service)
	return nil
}

func (h *HealthService) Stop(ctx context.Context) error {
	h.server.Shutdown()
	return nil
}

// Check answers a health probe without going through the network.
func (h *HealthService) Check(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: h.service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
