package grpc

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/metrics"
	"liyu1981.xyz/ai-security-service/pkg/models"
	"liyu1981.xyz/ai-security-service/pkg/security"
	_ "liyu1981.xyz/ai-security-service/pkg/testing"

	"liyu1981.xyz/ai-security-service/pkg/security/mocks"
)

const bufSize = 1024 * 1024

var limitedMethods = []string{GetRecentDetectionsMethod, GetCameraMethod}

func newTestSecurity() *security.Security {
	return security.New(db.GetInstance(db.UseMemorySqliteDialector()), metrics.New())
}

func startTestServerWithSecurity(t *testing.T, sec *security.Security, limiterStore *security.RateLimiterStore) (*DetectionClient, *DetectionServer) {
	listener := bufconn.Listen(bufSize)

	live := security.NewLiveManager(sec, security.LiveManagerOpts{
		Clock: detection.NewManualClock(time.Now()),
	})
	t.Cleanup(live.StopAll)

	detectionServer := &DetectionServer{Security: sec, Live: live, RateLimiterStore: limiterStore}
	server := grpc.NewServer(
		grpc.UnaryInterceptor(detectionServer.CreateRateLimitInterceptor(limitedMethods)),
		grpc.StreamInterceptor(detectionServer.CreateStreamRateLimitInterceptor([]string{StreamDetectionsMethod})),
	)
	RegisterDetectionServiceServer(server, detectionServer)

	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, s string) (net.Conn, error) {
			return listener.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewDetectionClient(conn), detectionServer
}

func startTestServer(t *testing.T) (*DetectionClient, *DetectionServer) {
	return startTestServerWithSecurity(t, newTestSecurity(), nil)
}

func createCamera(t *testing.T, sec *security.Security) *models.Camera {
	t.Helper()
	camera, err := sec.Camera.CreateCamera(context.Background(), &models.Camera{
		Name:     "Grpc " + uuid.NewString(),
		Location: "Gate",
	})
	require.NoError(t, err)
	return camera
}

func TestGetCameraAndRecentDetections(t *testing.T) {
	common.SetTestLoggerNop()
	client, server := startTestServer(t)
	ctx := context.Background()

	camera := createCamera(t, server.Security)
	other := createCamera(t, server.Security)

	info, err := client.GetCamera(ctx, camera.ID)
	require.NoError(t, err)
	assert.Equal(t, camera.ID, info.ID)
	assert.Equal(t, camera.Name, info.Name)
	assert.False(t, info.DetectionActive)

	require.NoError(t, server.Live.StartDetection(ctx, camera.ID))
	info, err = client.GetCamera(ctx, camera.ID)
	require.NoError(t, err)
	assert.True(t, info.DetectionActive)

	event := detection.Event{Category: "person-activity", Label: "Person detected", Confidence: 0.6, Timestamp: time.Now()}
	_, err = server.Security.Detection.RecordEvents(ctx, camera.ID, camera.Name, []detection.Event{event, event})
	require.NoError(t, err)
	_, err = server.Security.Detection.RecordEvents(ctx, other.ID, other.Name, []detection.Event{event})
	require.NoError(t, err)

	recent, err := client.GetRecentDetections(ctx, camera.ID)
	require.NoError(t, err)
	assert.Equal(t, camera.ID, recent.CameraID)
	require.Len(t, recent.Detections, 2)
	for _, d := range recent.Detections {
		require.NotNil(t, d.CameraID)
		assert.Equal(t, camera.ID, *d.CameraID)
		assert.Equal(t, "person-activity", d.DetectionType)
	}

	all, err := client.GetRecentDetections(ctx, "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all.Detections), 3)
}

func TestGetCamera_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t)
	ctx := context.Background()

	{
		// empty camera id will fail validation
		_, err := client.GetCamera(ctx, "")
		require.Error(t, err)
		st, _ := status.FromError(err)
		assert.Equal(t, codes.InvalidArgument, st.Code())
		assert.Contains(t, st.Message(), "validation error")
	}

	{
		_, err := client.GetCamera(ctx, uuid.NewString())
		st, _ := status.FromError(err)
		assert.Equal(t, codes.NotFound, st.Code())
	}

	{
		_, err := client.GetRecentDetections(ctx, uuid.NewString())
		st, _ := status.FromError(err)
		assert.Equal(t, codes.NotFound, st.Code())
	}
}

func TestGetRecentDetections_InternalError(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sec := newTestSecurity()
	mockIDetection := mocks.NewMockIDetection(ctrl)
	sec.WithServices(security.ServiceOpts{Detection: mockIDetection})

	mockIDetection.EXPECT().
		ListRecent(gomock.Any(), gomock.Eq(security.DefaultRecentLimit)).
		Return(nil, fmt.Errorf("test error")).
		Times(1)

	client, _ := startTestServerWithSecurity(t, sec, nil)

	_, err := client.GetRecentDetections(context.Background(), "")
	require.Error(t, err)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Contains(t, st.Message(), "test error")
}

func TestStreamDetections(t *testing.T) {
	common.SetTestLoggerNop()
	client, server := startTestServer(t)

	camera := createCamera(t, server.Security)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := client.StreamDetections(ctx, camera.ID)
	require.NoError(t, err)

	// keep feeding the sink until the stream has what it needs; the observer may attach late
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				server.Live.Sink().Record(
					detection.Event{ID: uuid.NewString(), Category: "vehicle-detection", Label: "Car detected", Source: uuid.NewString()},
					detection.Event{ID: uuid.NewString(), Category: "person-activity", Label: "Person detected", Source: camera.ID, FrameSeq: uint64(i)},
				)
			}
		}
	}()

	for range 3 {
		e, err := stream.Recv()
		require.NoError(t, err)
		assert.Equal(t, camera.ID, e.Source)
		assert.Equal(t, "person-activity", e.Category)
	}
}

func TestStreamDetections_UnknownCamera(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t)

	stream, err := client.StreamDetections(context.Background(), uuid.NewString())
	require.NoError(t, err)

	_, err = stream.Recv()
	require.Error(t, err)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.NotFound, st.Code())
}

func TestRateLimitInterceptor(t *testing.T) {
	common.SetTestLoggerNop()

	limiterStore := security.NewRateLimiterStore(0, 2) // no refill, burst 2 per camera
	sec := newTestSecurity()
	client, _ := startTestServerWithSecurity(t, sec, limiterStore)
	ctx := context.Background()

	camera := createCamera(t, sec)

	// First 2 requests should pass
	for i := range 2 {
		_, err := client.GetCamera(ctx, camera.ID)
		require.NoError(t, err, "expected request %d to pass", i+1)
	}

	// 3rd request should fail immediately
	_, err := client.GetRecentDetections(ctx, camera.ID)
	require.Error(t, err, "expected third request to be rate limited")

	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error")
	require.Equal(t, codes.ResourceExhausted, st.Code(), "expected ResourceExhausted code")

	// another camera has its own budget
	_, err = client.GetCamera(ctx, createCamera(t, sec).ID)
	require.NoError(t, err)

	// streams share the per camera budget
	stream, err := client.StreamDetections(ctx, camera.ID)
	require.NoError(t, err)
	_, err = stream.Recv()
	st, _ = status.FromError(err)
	require.Equal(t, codes.ResourceExhausted, st.Code())

	// increase rate limiter
	limiterStore.SetLimiter(camera.ID, 100, 2)

	_, err = client.GetCamera(ctx, camera.ID)
	require.NoError(t, err, "expected request after raising the limit to pass")
}
