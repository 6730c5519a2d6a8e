package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	z "github.com/Oudwins/zog"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/models"
	"liyu1981.xyz/ai-security-service/pkg/security"
)

// StreamBufferSize is how many events a slow stream may fall behind before events are dropped.
const StreamBufferSize = 64

func validateCameraID(cameraID *string) z.ZogIssueList {
	var cameraIdValidator = z.String().Min(1).Required()
	return cameraIdValidator.Validate(cameraID)
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, security.ErrInvalidInput):
		return codes.InvalidArgument
	case errors.Is(err, security.ErrCameraNotFound),
		errors.Is(err, security.ErrDetectionNotFound):
		return codes.NotFound
	case errors.Is(err, security.ErrCameraUnavailable),
		errors.Is(err, security.ErrManagerStopped):
		return codes.FailedPrecondition
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

func toStatus(err error) error {
	return status.Error(codeFor(err), err.Error())
}

// toStruct converts any JSON-serializable value into a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DetectionServer) logger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameGrpcServer,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDetection),
	)
}

// GetRecentDetections returns the latest detections, restricted to one camera when the request
// names one.
func (d *DetectionServer) GetRecentDetections(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	cameraID := req.GetValue()

	limit := security.DefaultRecentLimit
	if cameraID != "" {
		if _, err := d.Security.Camera.GetCamera(ctx, cameraID); err != nil {
			return nil, toStatus(err)
		}
		limit = security.MaxRecentLimit
	}

	rows, err := d.Security.Detection.ListRecent(ctx, limit)
	if err != nil {
		return nil, toStatus(err)
	}
	if cameraID != "" {
		rows = lo.Filter(rows, func(row models.Detection, _ int) bool {
			return row.CameraID != nil && *row.CameraID == cameraID
		})
		rows = rows[:min(len(rows), security.DefaultRecentLimit)]
	}
	if rows == nil {
		rows = []models.Detection{}
	}

	out, err := toStruct(map[string]any{"camera_id": cameraID, "detections": rows})
	if err != nil {
		return nil, toStatus(err)
	}
	return out, nil
}

func (d *DetectionServer) GetCamera(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	cameraID := req.GetValue()
	if err := validateCameraID(&cameraID); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}

	camera, err := d.Security.Camera.GetCamera(ctx, cameraID)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := toStruct(struct {
		*models.Camera
		DetectionActive bool `json:"detection_active"`
	}{camera, d.Live != nil && d.Live.IsActive(cameraID)})
	if err != nil {
		return nil, toStatus(err)
	}
	return out, nil
}

// StreamDetections pushes live dashboard events until the client goes away. A non-empty camera id
// keeps only that camera's events. Events a slow client cannot keep up with are dropped.
func (d *DetectionServer) StreamDetections(req *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()
	cameraID := req.GetValue()
	logger := d.logger().With(zap.String("camera_id", cameraID))

	if d.Live == nil {
		return status.Error(codes.Unavailable, "live detection is not running")
	}
	if cameraID != "" {
		if _, err := d.Security.Camera.GetCamera(ctx, cameraID); err != nil {
			return toStatus(err)
		}
	}

	events := make(chan detection.Event, StreamBufferSize)
	var dropped atomic.Int64
	cancel := d.Live.Sink().Observe(func(batch []detection.Event) {
		for _, e := range batch {
			if cameraID != "" && e.Source != cameraID {
				continue
			}
			select {
			case events <- e:
			default:
				dropped.Add(1)
			}
		}
	})
	defer cancel()

	logger.Info("Detection stream opened")
	defer func() {
		logger.Info("Detection stream closed", zap.Int64("dropped", dropped.Load()))
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			out, err := toStruct(e)
			if err != nil {
				return toStatus(fmt.Errorf("encode event %s: %w", e.ID, err))
			}
			if err := stream.Send(out); err != nil {
				return err
			}
		}
	}
}
