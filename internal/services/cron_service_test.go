package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/station-booking/internal/logger"
)

func TestCronService_StartSchedulesSweep(t *testing.T) {
	limiter, _ := setupRateLimitTest(60, 1)
	service := NewCronService(limiter, logger.Discard())

	require.NoError(t, service.Start())
	defer service.Stop()

	assert.Equal(t, 1, service.JobCount())
}

func TestCronService_RunSweepNow(t *testing.T) {
	limiter, clock := setupRateLimitTest(60, 1)
	service := NewCronService(limiter, logger.Discard())

	require.NoError(t, limiter.Check("user:quiet"))
	*clock = clock.Add(LimiterIdleAfter + time.Minute)
	require.NoError(t, limiter.Check("user:active"))

	assert.Equal(t, 1, service.RunSweepNow())
	assert.Equal(t, 1, limiter.Tracked())
	assert.Equal(t, 0, service.RunSweepNow())
}
