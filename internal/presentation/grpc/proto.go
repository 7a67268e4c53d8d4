package grpc

// proto.go defines the gRPC server interface for monostock.trust.v1.TrustService.
// Messages travel with the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TrustServiceName is the fully qualified gRPC service name.
const TrustServiceName = "monostock.trust.v1.TrustService"

// Full method names, used for auth policy.
const (
	MethodGetTrustScore         = "/" + TrustServiceName + "/GetTrustScore"
	MethodRecalculateTrustScore = "/" + TrustServiceName + "/RecalculateTrustScore"
	MethodAddFlag               = "/" + TrustServiceName + "/AddFlag"
	MethodResolveFlag           = "/" + TrustServiceName + "/ResolveFlag"
	MethodListFlags             = "/" + TrustServiceName + "/ListFlags"
)

// TrustServiceServer is the server API for TrustService.
type TrustServiceServer interface {
	GetTrustScore(context.Context, *GetTrustScoreRequest) (*TrustScoreResponse, error)
	RecalculateTrustScore(context.Context, *RecalculateTrustScoreRequest) (*TrustScoreResponse, error)
	AddFlag(context.Context, *AddFlagRequest) (*FlagResponse, error)
	ResolveFlag(context.Context, *ResolveFlagRequest) (*ResolveFlagResponse, error)
	ListFlags(context.Context, *ListFlagsRequest) (*ListFlagsResponse, error)
	mustEmbedUnimplementedTrustServiceServer()
}

// UnimplementedTrustServiceServer provides forward-compatible default implementations.
type UnimplementedTrustServiceServer struct{}

func (UnimplementedTrustServiceServer) GetTrustScore(context.Context, *GetTrustScoreRequest) (*TrustScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTrustScore not implemented")
}
func (UnimplementedTrustServiceServer) RecalculateTrustScore(context.Context, *RecalculateTrustScoreRequest) (*TrustScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecalculateTrustScore not implemented")
}
func (UnimplementedTrustServiceServer) AddFlag(context.Context, *AddFlagRequest) (*FlagResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddFlag not implemented")
}
func (UnimplementedTrustServiceServer) ResolveFlag(context.Context, *ResolveFlagRequest) (*ResolveFlagResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ResolveFlag not implemented")
}
func (UnimplementedTrustServiceServer) ListFlags(context.Context, *ListFlagsRequest) (*ListFlagsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListFlags not implemented")
}
func (UnimplementedTrustServiceServer) mustEmbedUnimplementedTrustServiceServer() {}

// RegisterTrustServiceServer registers the TrustServiceServer with the gRPC server.
func RegisterTrustServiceServer(s grpclib.ServiceRegistrar, srv TrustServiceServer) {
	s.RegisterService(&trustServiceDesc, srv)
}

var trustServiceDesc = grpclib.ServiceDesc{
	ServiceName: TrustServiceName,
	HandlerType: (*TrustServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "GetTrustScore", Handler: unary(MethodGetTrustScore, TrustServiceServer.GetTrustScore)},
		{MethodName: "RecalculateTrustScore", Handler: unary(MethodRecalculateTrustScore, TrustServiceServer.RecalculateTrustScore)},
		{MethodName: "AddFlag", Handler: unary(MethodAddFlag, TrustServiceServer.AddFlag)},
		{MethodName: "ResolveFlag", Handler: unary(MethodResolveFlag, TrustServiceServer.ResolveFlag)},
		{MethodName: "ListFlags", Handler: unary(MethodListFlags, TrustServiceServer.ListFlags)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "monostock/trust/v1/trust.proto",
}

// unary adapts a typed TrustServiceServer method to a grpc.MethodDesc handler,
// running the interceptor chain when one is installed.
func unary[Req, Resp any](
	fullMethod string,
	call func(TrustServiceServer, context.Context, *Req) (*Resp, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TrustServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(TrustServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
