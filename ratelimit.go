package agrilingo

import (
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig is a per-minute quota on remote calls, as public
// translation endpoints impose. It applies on top of the minimum interval.
type RateLimitConfig struct {
	RequestsPerMinute int // 0 disables the quota
	BurstSize         int // Calls allowed back to back (default: 1)
}

// WithRateLimit adds a per-minute quota to the queue. A token is taken after
// the minimum interval has passed and before the call start is recorded, so
// the quota can only lengthen the gap between calls.
func WithRateLimit(cfg RateLimitConfig) ServiceOption {
	return func(s *Service) {
		s.quota = newQuota(cfg)
	}
}

func newQuota(cfg RateLimitConfig) *rate.Limiter {
	if cfg.RequestsPerMinute <= 0 {
		return nil
	}
	burst := max(cfg.BurstSize, 1)
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), burst)
}
