package detection

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Sampler turns a FrameSource into timestamped frames at no more than one frame per interval.
type Sampler struct {
	name    string
	source  FrameSource
	clock   Clock
	limiter *rate.Limiter
	seq     atomic.Uint64
}

func NewSampler(name string, source FrameSource, clock Clock, interval time.Duration) *Sampler {
	if clock == nil {
		clock = RealClock{}
	}
	// tickers jitter, so a frame arriving up to 10% early still counts as on time
	every := interval - interval/10
	return &Sampler{
		name:    name,
		source:  source,
		clock:   clock,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

// Next grabs one frame. It returns ErrFrameRateExceeded when called ahead of the sampling rate.
func (s *Sampler) Next(ctx context.Context) (*Frame, error) {
	now := s.clock.Now()
	if !s.limiter.AllowN(now, 1) {
		return nil, ErrFrameRateExceeded
	}
	img, err := s.source.Grab(ctx)
	if err != nil {
		return nil, fmt.Errorf("grab frame from %s: %w", s.name, err)
	}
	return NewFrame(s.seq.Add(1), now, img, s.name), nil
}
