package detection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
)

const DefaultInterval = time.Second

type MonitorOpts struct {
	Name     string
	Source   FrameSource
	Detector DetectionSource
	Renderer *Renderer
	Sink     *Sink
	Clock    Clock
	Interval time.Duration
	// OnTick is called after every attempted tick with whether a frame was processed.
	OnTick func(processed bool, events []Event)
}

// Monitor drives one source through sample, detect, render and record on a fixed interval.
type Monitor struct {
	name     string
	sampler  *Sampler
	detector DetectionSource
	renderer *Renderer
	sink     *Sink
	clock    Clock
	interval time.Duration
	onTick   func(bool, []Event)
	logger   *zap.Logger

	busy atomic.Bool

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	lastFrame *Frame
}

func NewMonitor(opts MonitorOpts) *Monitor {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Renderer == nil {
		opts.Renderer = &Renderer{}
	}
	if opts.Sink == nil {
		opts.Sink = NewSink(DefaultSinkSize)
	}
	return &Monitor{
		name:     opts.Name,
		sampler:  NewSampler(opts.Name, opts.Source, opts.Clock, opts.Interval),
		detector: opts.Detector,
		renderer: opts.Renderer,
		sink:     opts.Sink,
		clock:    opts.Clock,
		interval: opts.Interval,
		onTick:   opts.OnTick,
		logger: common.GetLoggerWith(
			common.LoggerNameDetection,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryLive),
			zap.String("source", opts.Name),
		),
	}
}

func (m *Monitor) Name() string { return m.name }

func (m *Monitor) Sink() *Sink { return m.sink }

// Tick runs one cycle. It returns false without doing anything when another tick is still in
// progress or the sampler refuses the frame.
func (m *Monitor) Tick(ctx context.Context) bool {
	if !m.busy.CompareAndSwap(false, true) {
		m.logger.Debug("Tick skipped, previous tick still running")
		m.notify(false, nil)
		return false
	}
	defer m.busy.Store(false)

	frame, err := m.sampler.Next(ctx)
	if err != nil {
		if errors.Is(err, ErrFrameRateExceeded) {
			m.logger.Debug("Tick skipped", zap.Error(err))
		} else {
			m.logger.Warn("Failed to sample frame", zap.Error(err))
		}
		m.notify(false, nil)
		return false
	}

	events := m.detector.Detect(frame)
	m.renderer.Render(frame.Image, events)

	m.mu.Lock()
	m.lastFrame = frame
	m.mu.Unlock()

	if len(events) > 0 {
		m.logger.Info("Detections emitted", zap.Uint64("frame", frame.Seq), zap.Int("count", len(events)))
	}
	m.sink.Record(events...)
	m.notify(true, events)
	return true
}

func (m *Monitor) notify(processed bool, events []Event) {
	if m.onTick != nil {
		m.onTick(processed, events)
	}
}

// Start launches the tick loop. Starting a running monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	ticker := m.clock.NewTicker(m.interval)
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done

	m.logger.Info("Monitor started", zap.Duration("interval", m.interval))

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				m.Tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. It is safe to call any number of times.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.logger.Info("Monitor stopped")
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// LastFrame returns the most recent annotated frame, or nil before the first tick.
func (m *Monitor) LastFrame() *Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFrame
}
