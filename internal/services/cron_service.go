package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	// LimiterSweepSchedule runs the idle limiter sweep every five minutes
	LimiterSweepSchedule = "@every 5m"
	// LimiterIdleAfter is how long a caller may stay quiet before its limiter is dropped
	LimiterIdleAfter = 30 * time.Minute
)

// CronService manages scheduled background jobs
type CronService struct {
	cron    *cron.Cron
	limiter *RateLimitService
	logger  *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(limiter *RateLimitService, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		limiter: limiter,
		logger:  logger,
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(LimiterSweepSchedule, s.sweepLimitersJob); err != nil {
		return fmt.Errorf("failed to schedule limiter sweep: %w", err)
	}
	s.logger.WithField("schedule", LimiterSweepSchedule).Info("Scheduled: rate limiter sweep")

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Cron service stopped")
}

// JobCount returns the number of scheduled jobs
func (s *CronService) JobCount() int {
	return len(s.cron.Entries())
}

// RunSweepNow runs the limiter sweep immediately and returns how many limiters were dropped
func (s *CronService) RunSweepNow() int {
	return s.sweep()
}

func (s *CronService) sweepLimitersJob() {
	s.sweep()
}

func (s *CronService) sweep() int {
	start := time.Now()
	removed := s.limiter.CleanupIdle(LimiterIdleAfter)
	if removed > 0 {
		s.logger.WithFields(logrus.Fields{
			"removed": removed,
			"tracked": s.limiter.Tracked(),
			"took":    time.Since(start).String(),
		}).Debug("Rate limiters swept")
	}
	return removed
}
