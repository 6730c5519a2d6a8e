package detection

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/ai-security-service/pkg/common"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func alwaysCategories() []Category {
	cats := DefaultLiveCategories()
	for i := range cats {
		cats[i].TriggerProbability = 1
	}
	return cats
}

func newTestMonitor(clock Clock, detector DetectionSource, sink *Sink) *Monitor {
	return NewMonitor(MonitorOpts{
		Name:     "cam-1",
		Source:   TestPatternSource{Width: 640, Height: 480},
		Detector: detector,
		Renderer: &Renderer{ConfidenceBar: true},
		Sink:     sink,
		Clock:    clock,
		Interval: time.Second,
	})
}

type blockingDetector struct {
	entered chan struct{}
	release chan struct{}
}

func (d *blockingDetector) Detect(frame *Frame) []Event {
	d.entered <- struct{}{}
	<-d.release
	return []Event{{ID: "blocked", Label: "Person Detected", Confidence: 0.7, Box: Box{X: 1, Y: 1, Width: 10, Height: 10}}}
}

func TestMonitor_Tick(t *testing.T) {
	common.SetTestLoggerNop()

	clock := NewManualClock(epoch)
	sink := NewSink(DefaultSinkSize)
	m := newTestMonitor(clock, NewSeededGenerator(7, alwaysCategories()), sink)

	assert.Nil(t, m.LastFrame())

	require.True(t, m.Tick(context.Background()))
	assert.Equal(t, 3, sink.Len())

	frame := m.LastFrame()
	require.NotNil(t, frame)
	assert.Equal(t, uint64(1), frame.Seq)
	assert.Equal(t, epoch, frame.Timestamp)
	assert.Equal(t, 640, frame.Width)

	// faster than the interval
	assert.False(t, m.Tick(context.Background()))
	assert.Equal(t, 3, sink.Len())

	clock.Advance(time.Second)
	require.True(t, m.Tick(context.Background()))
	assert.Equal(t, 6, sink.Len())
	assert.Equal(t, uint64(2), m.LastFrame().Seq)
	assert.Equal(t, epoch.Add(time.Second), sink.Events()[0].Timestamp)
}

func TestMonitor_OverlappingTickSkipped(t *testing.T) {
	common.SetTestLoggerNop()

	detector := &blockingDetector{entered: make(chan struct{}), release: make(chan struct{})}
	sink := NewSink(DefaultSinkSize)

	var skipped atomic.Int32
	m := NewMonitor(MonitorOpts{
		Name:     "cam-2",
		Source:   TestPatternSource{Width: 320, Height: 240},
		Detector: detector,
		Sink:     sink,
		Clock:    NewManualClock(epoch),
		Interval: time.Second,
		OnTick: func(processed bool, _ []Event) {
			if !processed {
				skipped.Add(1)
			}
		},
	})

	result := make(chan bool)
	go func() { result <- m.Tick(context.Background()) }()

	<-detector.entered
	assert.False(t, m.Tick(context.Background()))
	assert.EqualValues(t, 1, skipped.Load())

	close(detector.release)
	assert.True(t, <-result)
	assert.Equal(t, []string{"blocked"}, ids(sink.Events()))
}

func TestMonitor_StartStop(t *testing.T) {
	common.SetTestLoggerNop()

	clock := NewManualClock(epoch)
	sink := NewSink(DefaultSinkSize)
	m := newTestMonitor(clock, NewSeededGenerator(8, alwaysCategories()), sink)

	m.Start(context.Background())
	m.Start(context.Background())
	assert.True(t, m.Running())

	clock.Advance(time.Second)
	assert.Eventually(t, func() bool { return sink.Len() == 3 }, time.Second, 5*time.Millisecond)

	m.Stop()
	m.Stop()
	assert.False(t, m.Running())

	clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, sink.Len())

	// a stopped monitor can be started again
	m.Start(context.Background())
	clock.Advance(time.Second)
	assert.Eventually(t, func() bool { return sink.Len() == 6 }, time.Second, 5*time.Millisecond)
	m.Stop()
}

func TestMonitor_StopsWithContext(t *testing.T) {
	common.SetTestLoggerNop()

	clock := NewManualClock(epoch)
	m := newTestMonitor(clock, NewSeededGenerator(9, DefaultLiveCategories()), nil)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	cancel()

	assert.NotPanics(t, m.Stop)
	assert.False(t, m.Running())
	assert.NotNil(t, m.Sink())
}

func TestSampler_EdgeCases(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewSampler("cam", BlankSource{Width: 10, Height: 10}, clock, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	clock.Advance(time.Second)
	frame, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), frame.Seq)

	clock.Advance(500 * time.Millisecond)
	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, ErrFrameRateExceeded)

	clock.Advance(500 * time.Millisecond)
	frame, err = s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), frame.Seq)
}
