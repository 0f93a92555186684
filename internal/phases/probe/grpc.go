package probe

import (
	"context"
	"fmt"
	"net/url"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// grpcChecker speaks the standard grpc.health.v1 protocol. The
// optional ?service= query selects a registered service name; the
// empty default asks for overall server health.
type grpcChecker struct {
	address string
	service string
	display string
}

func newGRPCChecker(u *url.URL) (*grpcChecker, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %s: missing host", ErrInvalidTarget, u.String())
	}
	return &grpcChecker{
		address: u.Host,
		service: u.Query().Get("service"),
		display: u.String(),
	}, nil
}

func (c *grpcChecker) String() string { return c.display }

func (c *grpcChecker) Check(ctx context.Context) error {
	conn, err := grpc.NewClient(
		c.address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{
		Service: c.service,
	})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: health status %s", ErrNotServing, resp.GetStatus())
	}
	return nil
}
