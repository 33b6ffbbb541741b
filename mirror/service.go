package mirror

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "shellcat.mirror.v1.ConfigMirror"

const (
	getConfigMethod = "/" + ServiceName + "/GetConfig"
	snapshotMethod  = "/" + ServiceName + "/Snapshot"
)

// SnapshotHeader is the response header carrying the CID of the snapshot
// that answered a GetConfig call.
const SnapshotHeader = "x-snapshot-cid"

// ConfigMirrorServer is the server API for the ConfigMirror service.
//
// Messages are protobuf well-known wrapper types, so the service needs no
// protoc/codegen step:
//
//	service ConfigMirror {
//	  // request: encoded ConfigRequest; reply: raw server response.
//	  rpc GetConfig(google.protobuf.BytesValue) returns (google.protobuf.BytesValue);
//	  // request: snapshot CID; reply: raw server response.
//	  rpc Snapshot(google.protobuf.StringValue) returns (google.protobuf.BytesValue);
//	}
type ConfigMirrorServer interface {
	GetConfig(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Snapshot(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedConfigMirrorServer can be embedded to have forward compatible implementations.
type UnimplementedConfigMirrorServer struct{}

func (UnimplementedConfigMirrorServer) GetConfig(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetConfig not implemented")
}
func (UnimplementedConfigMirrorServer) Snapshot(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Snapshot not implemented")
}

// RegisterConfigMirrorServer registers the ConfigMirror service on a gRPC server.
func RegisterConfigMirrorServer(s grpc.ServiceRegistrar, srv ConfigMirrorServer) {
	s.RegisterService(&ConfigMirror_ServiceDesc, srv)
}

// ConfigMirrorClient is the client API for the ConfigMirror service.
type ConfigMirrorClient interface {
	GetConfig(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Snapshot(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type configMirrorClient struct{ cc grpc.ClientConnInterface }

func NewConfigMirrorClient(cc grpc.ClientConnInterface) ConfigMirrorClient {
	return &configMirrorClient{cc: cc}
}

func (c *configMirrorClient) GetConfig(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, getConfigMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *configMirrorClient) Snapshot(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, snapshotMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _ConfigMirror_GetConfig_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConfigMirrorServer).GetConfig(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getConfigMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConfigMirrorServer).GetConfig(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _ConfigMirror_Snapshot_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConfigMirrorServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: snapshotMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConfigMirrorServer).Snapshot(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ConfigMirror_ServiceDesc is the grpc.ServiceDesc for the ConfigMirror service.
var ConfigMirror_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConfigMirrorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetConfig", Handler: _ConfigMirror_GetConfig_Handler},
		{MethodName: "Snapshot", Handler: _ConfigMirror_Snapshot_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mirror.proto",
}
