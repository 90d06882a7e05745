package services

import (
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerMinute int // sustained requests per minute per key
	Burst     int // requests allowed at once
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitService keeps one token bucket per key (a user id for order creation)
type RateLimitService struct {
	config   RateLimitConfig
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	now      func() time.Time
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(config RateLimitConfig) *RateLimitService {
	if config.Burst < 1 {
		config.Burst = 1
	}
	return &RateLimitService{
		config:   config,
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
}

// Check consumes one token for key and returns a *RateLimitError when none is left
func (s *RateLimitService) Check(key string) error {
	if s.config.PerMinute <= 0 {
		return nil
	}

	s.mu.Lock()
	now := s.now()
	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(s.config.PerMinute)/60, s.config.Burst),
		}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	s.mu.Unlock()

	reservation := entry.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return nil
	}
	reservation.CancelAt(now)

	return &RateLimitError{
		Message:    fmt.Sprintf("Too many requests. Please try again in %d seconds", int(math.Ceil(delay.Seconds()))),
		RetryAfter: delay,
	}
}

// CleanupIdle forgets limiters not used for longer than idle and returns how many were removed
func (s *RateLimitService) CleanupIdle(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	removed := 0
	for key, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

// Tracked returns the number of keys currently holding a limiter
func (s *RateLimitService) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
