package security

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/ai-security-service/pkg/common"
)

const (
	DefaultLimiterIdle  = 10 * time.Minute
	DefaultLimiterSweep = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	// pinned entries were set explicitly and are never evicted
	pinned bool
}

// RateLimiterStore keeps one token bucket per key. The HTTP layer keys by account or remote
// address, the gRPC layer by camera id. Default buckets that sit idle and full are evicted,
// so a key that returns later cannot tell it was forgotten.
type RateLimiterStore struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	defaultRate  rate.Limit
	defaultBurst int
	now          func() time.Time
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		entries:      make(map[string]*limiterEntry),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
		now:          time.Now,
	}
}

func (s *RateLimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.defaultRate, s.defaultBurst)}
		s.entries[key] = entry
	}
	entry.lastSeen = s.now()
	return entry.limiter
}

// SetLimiter gives key its own rate and burst. The entry stays until the process exits.
func (s *RateLimiterStore) SetLimiter(key string, clientRate rate.Limit, clientBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &limiterEntry{
		limiter:  rate.NewLimiter(clientRate, clientBurst),
		lastSeen: s.now(),
		pinned:   true,
	}
}

// Allow reports whether key may proceed now, consuming a token when it may.
func (s *RateLimiterStore) Allow(key string) bool {
	return s.GetLimiter(key).Allow()
}

func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Evict drops default entries unused for at least idle whose bucket is full again, and returns
// how many were dropped. A drained bucket with no refill rate is kept.
func (s *RateLimiterStore) Evict(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for key, entry := range s.entries {
		if entry.pinned || now.Sub(entry.lastSeen) < idle {
			continue
		}
		if !s.refilled(entry.limiter, now) {
			continue
		}
		delete(s.entries, key)
		evicted++
	}
	return evicted
}

// refilled reports whether a default bucket is back to its starting state. A zero rate limiter
// spends its burst instead of its tokens.
func (s *RateLimiterStore) refilled(limiter *rate.Limiter, now time.Time) bool {
	if limiter.Limit() == 0 {
		return limiter.Burst() >= s.defaultBurst
	}
	return limiter.TokensAt(now) >= float64(limiter.Burst())
}

// RunEviction calls Evict(idle) every interval until ctx is done.
func (s *RateLimiterStore) RunEviction(ctx context.Context, interval, idle time.Duration) {
	logger := common.GetLoggerWith(
		common.LoggerNameSecurityCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryLimiter),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(idle); n > 0 {
				logger.Debug("Idle limiters evicted", zap.Int("evicted", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}
