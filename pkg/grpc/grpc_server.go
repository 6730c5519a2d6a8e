package grpc

import (
	"golang.org/x/time/rate"

	"liyu1981.xyz/ai-security-service/pkg/security"
)

type DetectionServer struct {
	Security         *security.Security
	Live             *security.LiveManager
	RateLimiterStore *security.RateLimiterStore
}

func (d *DetectionServer) GetLimiter(cameraID string) *rate.Limiter {
	if d.RateLimiterStore == nil {
		return nil
	} else {
		return d.RateLimiterStore.GetLimiter(cameraID)
	}
}

func (d *DetectionServer) CheckCameraLimiter(cameraID string) bool {
	limiter := d.GetLimiter(cameraID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}
