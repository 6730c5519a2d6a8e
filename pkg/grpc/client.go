package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

// DetectionClient is a typed client of the detection service.
type DetectionClient struct {
	cc grpc.ClientConnInterface
}

func NewDetectionClient(cc grpc.ClientConnInterface) *DetectionClient {
	return &DetectionClient{cc: cc}
}

func fromStruct(in *structpb.Struct, out any) error {
	b, err := in.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

type RecentDetections struct {
	CameraID   string             `json:"camera_id"`
	Detections []models.Detection `json:"detections"`
}

type CameraInfo struct {
	models.Camera
	DetectionActive bool `json:"detection_active"`
}

// GetRecentDetections fetches the latest detections, of every camera when cameraID is empty.
func (c *DetectionClient) GetRecentDetections(ctx context.Context, cameraID string, opts ...grpc.CallOption) (*RecentDetections, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetRecentDetectionsMethod, wrapperspb.String(cameraID), out, opts...); err != nil {
		return nil, err
	}
	var resp RecentDetections
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *DetectionClient) GetCamera(ctx context.Context, cameraID string, opts ...grpc.CallOption) (*CameraInfo, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetCameraMethod, wrapperspb.String(cameraID), out, opts...); err != nil {
		return nil, err
	}
	var resp CameraInfo
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DetectionStream receives live events. Cancel the context passed to StreamDetections to close it.
type DetectionStream struct {
	stream grpc.ServerStreamingClient[structpb.Struct]
}

func (s *DetectionStream) Recv() (detection.Event, error) {
	var e detection.Event
	msg, err := s.stream.Recv()
	if err != nil {
		return e, err
	}
	err = fromStruct(msg, &e)
	return e, err
}

func (c *DetectionClient) StreamDetections(ctx context.Context, cameraID string, opts ...grpc.CallOption) (*DetectionStream, error) {
	stream, err := c.cc.NewStream(ctx, &DetectionServiceDesc.Streams[0], StreamDetectionsMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(wrapperspb.String(cameraID)); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return &DetectionStream{stream: x}, nil
}
