package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/monostock/trust/pkg/auth"
	"github.com/monostock/trust/pkg/tlsutil"
)

// ServerOptions configures the gRPC listener.
type ServerOptions struct {
	Address         string
	TLSCertFile     string
	TLSKeyFile      string
	TLSClientCAFile string
	Reflection      bool
}

// MethodRoles is the role policy for TrustService. GetTrustScore is open to
// any authenticated caller.
var MethodRoles = map[string][]string{
	MethodRecalculateTrustScore: {auth.RoleAdmin, auth.RoleModerator, auth.RoleService},
	MethodAddFlag:               {auth.RoleAdmin, auth.RoleModerator},
	MethodResolveFlag:           {auth.RoleAdmin, auth.RoleModerator},
	MethodListFlags:             {auth.RoleAdmin, auth.RoleModerator},
}

var healthMethods = []string{
	"/grpc.health.v1.Health/Check",
	"/grpc.health.v1.Health/Watch",
}

// Server wraps the gRPC server with trust service handlers.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
	address    string
}

// NewServer creates a new gRPC server for the trust service.
func NewServer(handler TrustServiceServer, opts ServerOptions, validator auth.TokenValidator, logger *slog.Logger) (*Server, error) {
	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			auth.UnaryAuthInterceptor(validator, healthMethods),
			auth.RequireMethodRoles(MethodRoles),
		),
	}

	if opts.TLSCertFile != "" && opts.TLSKeyFile != "" {
		creds, err := tlsutil.ServerTLSConfig(opts.TLSCertFile, opts.TLSKeyFile, opts.TLSClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled",
			slog.String("cert", opts.TLSCertFile),
			slog.Bool("mutual", opts.TLSClientCAFile != ""),
		)
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	grpcServer := grpc.NewServer(serverOpts...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(TrustServiceName, healthpb.HealthCheckResponse_SERVING)

	RegisterTrustServiceServer(grpcServer, handler)

	if opts.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
		address:    opts.Address,
	}, nil
}

// Start begins listening and serving gRPC requests.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	return s.Serve(listener)
}

// Serve serves gRPC requests on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("gRPC server starting",
		slog.String("address", listener.Addr().String()),
	)
	return s.grpcServer.Serve(listener)
}

// Stop marks the service not serving and gracefully stops the gRPC server.
func (s *Server) Stop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
