package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DialTimeout bounds connecting to the resident launcher.
const DialTimeout = time.Second

// ErrNotRunning is returned when no launcher socket exists.
var ErrNotRunning = fmt.Errorf("summon is not running")

// Client sends triggers to the resident launcher.
type Client struct {
	conn *grpc.ClientConn
}

// SocketExists reports whether a socket file exists at path.
func SocketExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Dial connects to the launcher listening on socketPath.
func Dial(ctx context.Context, socketPath string) (*Client, error) {
	if !SocketExists(socketPath) {
		return nil, fmt.Errorf("%w: socket not found: %s", ErrNotRunning, socketPath)
	}

	dialer := func(ctx context.Context, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "unix", socketPath)
	}

	//nolint:staticcheck // Using deprecated DialContext for blocking connection behavior
	conn, err := grpc.DialContext(
		ctx,
		"passthrough:///"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(dialer),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Activate sends a trigger.
func (c *Client) Activate(ctx context.Context, t Trigger) error {
	err := c.conn.Invoke(ctx, activateMethod, wrapperspb.String(string(t)), new(emptypb.Empty))
	if err != nil {
		return fmt.Errorf("activate %s: %w", t, err)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Send dials socketPath, sends one trigger and disconnects.
func Send(ctx context.Context, socketPath string, t Trigger) error {
	dialCtx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()

	c, err := Dial(dialCtx, socketPath)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Activate(ctx, t)
}
