package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// HandlerFunc acts on a trigger. It must not block on the UI.
type HandlerFunc func(ctx context.Context, t Trigger) error

// ServerConfig configures NewServer.
type ServerConfig struct {
	// SocketPath is the unix socket to listen on (required).
	SocketPath string

	// Handler receives every valid trigger (required).
	Handler HandlerFunc

	// Logger is the structured logger (optional, uses default if nil).
	Logger *slog.Logger
}

// Server serves the trigger service.
type Server struct {
	socketPath string
	handler    HandlerFunc
	logger     *slog.Logger

	grpcServer *grpc.Server
	listener   net.Listener
	done       chan error
	stopOnce   sync.Once
}

var _ TriggerServer = (*Server)(nil)

// NewServer validates cfg and returns a server that is not yet listening.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.SocketPath == "" {
		return nil, fmt.Errorf("socket path is required")
	}
	if cfg.Handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: cfg.SocketPath,
		handler:    cfg.Handler,
		logger:     logger,
		done:       make(chan error, 1),
	}, nil
}

// Start listens on the socket and serves in the background.
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	// Clean up stale socket
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove stale socket", "path", s.socketPath, "error", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.listener = listener

	s.grpcServer = grpc.NewServer()
	RegisterTriggerServer(s.grpcServer, s)

	go func() {
		if err := s.grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.done <- fmt.Errorf("gRPC server error: %w", err)
			return
		}
		s.done <- nil
	}()

	s.logger.Info("trigger server listening", "socket", s.socketPath)
	return nil
}

// Done reports the serve loop's exit.
func (s *Server) Done() <-chan error {
	return s.done
}

// Stop shuts the server down and removes the socket.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.grpcServer != nil {
			s.grpcServer.GracefulStop()
		}
		if s.listener != nil {
			s.listener.Close()
		}
		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove socket", "path", s.socketPath, "error", err)
		}
		s.logger.Info("trigger server stopped")
	})
}

// Activate implements TriggerServer.
func (s *Server) Activate(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	t, err := ParseTrigger(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	s.logger.Debug("trigger received", "trigger", string(t))
	if err := s.handler(ctx, t); err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &emptypb.Empty{}, nil
}
