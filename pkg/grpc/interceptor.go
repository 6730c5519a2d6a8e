package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"liyu1981.xyz/ai-security-service/pkg/common"
)

type cameraRequest interface{ GetValue() string }

func methodSet(targetMethods []string) map[string]bool {
	return common.Reducer(targetMethods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)
}

// CreateRateLimitInterceptor limits the listed unary methods per camera id.
func (d *DetectionServer) CreateRateLimitInterceptor(targetMethods []string) grpc.UnaryServerInterceptor {
	targetMethodMap := methodSet(targetMethods)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetMethodMap[info.FullMethod]; ok {
			if r, ok := req.(cameraRequest); ok {
				if !d.CheckCameraLimiter(r.GetValue()) {
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}

// rateLimitedStream checks the limiter when the opening request of a stream arrives.
type rateLimitedStream struct {
	grpc.ServerStream
	check func(cameraID string) bool
}

func (s *rateLimitedStream) RecvMsg(m any) error {
	if err := s.ServerStream.RecvMsg(m); err != nil {
		return err
	}
	if r, ok := m.(cameraRequest); ok && !s.check(r.GetValue()) {
		return status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
	}
	return nil
}

// CreateStreamRateLimitInterceptor limits opening the listed streams per camera id.
func (d *DetectionServer) CreateStreamRateLimitInterceptor(targetMethods []string) grpc.StreamServerInterceptor {
	targetMethodMap := methodSet(targetMethods)

	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if _, ok := targetMethodMap[info.FullMethod]; ok {
			ss = &rateLimitedStream{ServerStream: ss, check: d.CheckCameraLimiter}
		}
		return handler(srv, ss)
	}
}
