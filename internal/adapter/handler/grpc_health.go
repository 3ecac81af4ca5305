package handler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/storefront-cart/internal/port"
)

// CartServiceName is the service name reported through the gRPC health protocol.
const CartServiceName = "storefront.cart.CartStore"

const probeTimeout = 2 * time.Second

// HealthReporter probes the cart storage and publishes the result on the
// standard gRPC health service.
type HealthReporter struct {
	server  *health.Server
	storage port.Pinger
	log     zerolog.Logger
}

func NewHealthReporter(server *health.Server, storage port.Pinger, log zerolog.Logger) *HealthReporter {
	return &HealthReporter{server: server, storage: storage, log: log}
}

// Probe pings the storage once and updates the serving status.
func (h *HealthReporter) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.storage.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("cart storage unreachable")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.server.SetServingStatus(CartServiceName, status)
	h.server.SetServingStatus("", status)
	return status
}

// Run probes every interval until ctx is done. A non-positive interval
// probes once and returns.
func (h *HealthReporter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		h.log.Warn().Dur("interval", interval).Msg("health interval not positive, probing once")
		h.Probe(ctx)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}
