// Package ipc carries activation triggers from the summon CLI to the
// resident launcher over gRPC on a unix socket.
package ipc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Trigger names an activation.
type Trigger string

// Triggers understood by the launcher.
const (
	TriggerShow          Trigger = "show"
	TriggerShowClipboard Trigger = "show-clipboard"
	TriggerHide          Trigger = "hide"
	TriggerQuit          Trigger = "quit"
	TriggerPing          Trigger = "ping"
)

// ParseTrigger validates a trigger name.
func ParseTrigger(name string) (Trigger, error) {
	switch t := Trigger(name); t {
	case TriggerShow, TriggerShowClipboard, TriggerHide, TriggerQuit, TriggerPing:
		return t, nil
	}
	return "", fmt.Errorf("unknown trigger %q", name)
}

const (
	serviceName    = "summon.v1.Trigger"
	activateMethod = "/summon.v1.Trigger/Activate"
)

// TriggerServer is the server API of the trigger service. The request
// carries the trigger name.
type TriggerServer interface {
	Activate(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error)
}

func activateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TriggerServer).Activate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: activateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TriggerServer).Activate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var triggerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TriggerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Activate", Handler: activateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "summon/v1/trigger.proto",
}

// RegisterTriggerServer registers srv on s.
func RegisterTriggerServer(s grpc.ServiceRegistrar, srv TriggerServer) {
	s.RegisterService(&triggerServiceDesc, srv)
}
