package security

import (
	"bytes"
	"context"
	"image/jpeg"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

const (
	DefaultFrameWidth  = 640
	DefaultFrameHeight = 480

	snapshotQuality = 85
)

type LiveManagerOpts struct {
	Detector detection.DetectionSource
	Renderer *detection.Renderer
	Clock    detection.Clock
	Interval time.Duration
	SinkSize int
	// SourceFor picks the frame source of a camera. Defaults to a color-bar test pattern.
	SourceFor func(camera *models.Camera) detection.FrameSource
}

// LiveManager runs one detection monitor per camera. All monitors record into a single
// dashboard sink, and every processed tick is persisted under its camera.
type LiveManager struct {
	security  *Security
	detector  detection.DetectionSource
	renderer  *detection.Renderer
	clock     detection.Clock
	interval  time.Duration
	sink      *detection.Sink
	sourceFor func(camera *models.Camera) detection.FrameSource
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	monitors map[string]*detection.Monitor
}

func NewLiveManager(s *Security, opts LiveManagerOpts) *LiveManager {
	if opts.Detector == nil {
		opts.Detector = detection.NewGenerator(nil, detection.DefaultLiveCategories())
	}
	if opts.Renderer == nil {
		opts.Renderer = &detection.Renderer{}
	}
	if opts.Clock == nil {
		opts.Clock = detection.RealClock{}
	}
	if opts.Interval <= 0 {
		opts.Interval = detection.DefaultInterval
	}
	if opts.SourceFor == nil {
		opts.SourceFor = func(*models.Camera) detection.FrameSource {
			return detection.TestPatternSource{Width: DefaultFrameWidth, Height: DefaultFrameHeight}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &LiveManager{
		security:  s,
		detector:  opts.Detector,
		renderer:  opts.Renderer,
		clock:     opts.Clock,
		interval:  opts.Interval,
		sink:      detection.NewSink(opts.SinkSize),
		sourceFor: opts.SourceFor,
		logger: common.GetLoggerWith(
			common.LoggerNameSecurityCore,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryLive),
		),
		ctx:      ctx,
		cancel:   cancel,
		monitors: make(map[string]*detection.Monitor),
	}
}

// Sink is the dashboard feed shared by every camera.
func (lm *LiveManager) Sink() *detection.Sink {
	return lm.sink
}

// StartDetection begins live detection on an online camera. Starting an active camera is a no-op.
func (lm *LiveManager) StartDetection(ctx context.Context, cameraID string) error {
	camera, err := lm.security.Camera.GetCamera(ctx, cameraID)
	if err != nil {
		return err
	}
	if camera.Status != models.CameraStatusOnline {
		return ErrCameraUnavailable
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lm.ctx.Err() != nil {
		return ErrManagerStopped
	}
	if _, ok := lm.monitors[cameraID]; ok {
		return nil
	}

	source := camera.Name
	monitor := detection.NewMonitor(detection.MonitorOpts{
		Name:     cameraID,
		Source:   lm.sourceFor(camera),
		Detector: lm.detector,
		Renderer: lm.renderer,
		Sink:     lm.sink,
		Clock:    lm.clock,
		Interval: lm.interval,
		OnTick: func(processed bool, events []detection.Event) {
			lm.onTick(cameraID, source, processed, events)
		},
	})
	lm.monitors[cameraID] = monitor
	monitor.Start(lm.ctx)
	lm.security.Metrics.SetActiveMonitors(len(lm.monitors))

	lm.logger.Info("Live detection started", zap.String("camera_id", cameraID), zap.String("name", camera.Name))
	return nil
}

// StopDetection stops the camera's monitor. Stopping an inactive camera is a no-op.
func (lm *LiveManager) StopDetection(cameraID string) {
	lm.mu.Lock()
	monitor, ok := lm.monitors[cameraID]
	delete(lm.monitors, cameraID)
	active := len(lm.monitors)
	lm.mu.Unlock()

	if !ok {
		return
	}
	monitor.Stop()
	lm.security.Metrics.SetActiveMonitors(active)

	lm.logger.Info("Live detection stopped", zap.String("camera_id", cameraID))
}

// StopAll stops every monitor. The manager cannot start monitors afterwards.
func (lm *LiveManager) StopAll() {
	lm.mu.Lock()
	monitors := lm.monitors
	lm.monitors = make(map[string]*detection.Monitor)
	lm.mu.Unlock()

	for _, monitor := range monitors {
		monitor.Stop()
	}
	lm.cancel()
	lm.security.Metrics.SetActiveMonitors(0)
}

// Active lists the camera ids with detection running, sorted.
func (lm *LiveManager) Active() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	ids := make([]string, 0, len(lm.monitors))
	for id := range lm.monitors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (lm *LiveManager) IsActive(cameraID string) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	_, ok := lm.monitors[cameraID]
	return ok
}

// Tick runs one detection cycle on an active camera outside its schedule.
func (lm *LiveManager) Tick(ctx context.Context, cameraID string) (bool, error) {
	lm.mu.Lock()
	monitor, ok := lm.monitors[cameraID]
	lm.mu.Unlock()
	if !ok {
		return false, ErrCameraUnavailable
	}
	return monitor.Tick(ctx), nil
}

// Snapshot encodes the camera's last annotated frame as JPEG.
func (lm *LiveManager) Snapshot(cameraID string) ([]byte, error) {
	lm.mu.Lock()
	monitor, ok := lm.monitors[cameraID]
	lm.mu.Unlock()
	if !ok {
		return nil, ErrCameraUnavailable
	}

	frame := monitor.LastFrame()
	if frame == nil {
		return nil, ErrNoFrame
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame.Image, &jpeg.Options{Quality: snapshotQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lm *LiveManager) onTick(cameraID, source string, processed bool, events []detection.Event) {
	metrics := lm.security.Metrics
	metrics.ObserveTick(processed)
	if !processed {
		return
	}

	metrics.ObserveDetections(len(events), suspiciousEvents(events))

	// a stop must not drop a batch already in the sink
	ctx := context.WithoutCancel(lm.ctx)
	if _, err := lm.security.Detection.RecordEvents(ctx, cameraID, source, events); err != nil {
		lm.logger.Warn("Failed to persist detections", zap.String("camera_id", cameraID), zap.Error(err))
	}
	if err := lm.security.Camera.TouchActivity(ctx, cameraID, lm.clock.Now()); err != nil {
		lm.logger.Warn("Failed to touch camera activity", zap.String("camera_id", cameraID), zap.Error(err))
	}
}

func suspiciousEvents(events []detection.Event) int {
	return lo.CountBy(events, func(e detection.Event) bool { return e.Suspicious() })
}
