package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is declared by hand over protobuf well-known types: every request is a camera id
// wrapped in a StringValue and every response is a JSON-shaped Struct.
const (
	DetectionServiceName = "security.DetectionService"

	GetRecentDetectionsMethod = "/" + DetectionServiceName + "/GetRecentDetections"
	GetCameraMethod           = "/" + DetectionServiceName + "/GetCamera"
	StreamDetectionsMethod    = "/" + DetectionServiceName + "/StreamDetections"
)

type DetectionServiceServer interface {
	GetRecentDetections(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetCamera(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	StreamDetections(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error
}

func RegisterDetectionServiceServer(s grpc.ServiceRegistrar, srv DetectionServiceServer) {
	s.RegisterService(&DetectionServiceDesc, srv)
}

func unaryHandler(
	fullMethod string,
	call func(srv DetectionServiceServer, ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DetectionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DetectionServiceServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func streamDetectionsHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DetectionServiceServer).StreamDetections(in, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

var DetectionServiceDesc = grpc.ServiceDesc{
	ServiceName: DetectionServiceName,
	HandlerType: (*DetectionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetRecentDetections",
			Handler: unaryHandler(GetRecentDetectionsMethod, func(srv DetectionServiceServer, ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
				return srv.GetRecentDetections(ctx, req)
			}),
		},
		{
			MethodName: "GetCamera",
			Handler: unaryHandler(GetCameraMethod, func(srv DetectionServiceServer, ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
				return srv.GetCamera(ctx, req)
			}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamDetections",
			Handler:       streamDetectionsHandler,
			ServerStreams: true,
		},
	},
}
