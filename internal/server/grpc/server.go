// Package grpc exposes the standard gRPC health service. Its status follows
// the reachability of the database and the admission store.
package grpc

import (
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) error

const (
	checkInterval = 10 * time.Second
	checkTimeout  = 2 * time.Second
)

type HealthServer struct {
	address  string
	logger   logging.Logger
	checks   map[string]CheckFunc
	interval time.Duration
	health   *health.Server

	mu      sync.Mutex
	serving bool
}

// NewHealthServer builds a server that reports SERVING for "" only while
// every check passes; each check is also reported under its own name.
func NewHealthServer(a string, l logging.Logger, checks map[string]CheckFunc) *HealthServer {
	return &HealthServer{
		address:  a,
		logger:   l.With("module", "grpc_health"),
		checks:   checks,
		interval: checkInterval,
		health:   health.NewServer(),
	}
}

// Refresh runs every check once and publishes the result.
func (s *HealthServer) Refresh(ctx context.Context) bool {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	all := true
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checks[name](cctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			all = false
			status = healthpb.HealthCheckResponse_NOT_SERVING
			s.logger.Warn(ctx, "health check failed", "check", name, "error", err)
		}
		s.health.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !all {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)

	s.mu.Lock()
	changed := s.serving != all
	s.serving = all
	s.mu.Unlock()
	if changed {
		s.logger.Info(ctx, "health status changed", "serving", all)
	}
	return all
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve runs on lis until ctx is cancelled.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.Refresh(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
