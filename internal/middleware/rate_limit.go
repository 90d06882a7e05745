package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smarttransit/station-booking/internal/services"
	"github.com/smarttransit/station-booking/internal/utils"
)

// RateLimiter checks and consumes a request token for a key
type RateLimiter interface {
	Check(key string) error
}

// RateLimit throttles requests per authenticated user, falling back to the client IP
func RateLimit(limiter RateLimiter, proxies utils.TrustedProxies) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + proxies.ClientIP(c)
		if userCtx, ok := GetUserContext(c); ok {
			key = "user:" + userCtx.UserID.String()
		}

		err := limiter.Check(key)
		if err == nil {
			c.Next()
			return
		}

		var rateErr *services.RateLimitError
		if !errors.As(err, &rateErr) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Rate limit check failed",
				"code":    "INTERNAL_ERROR",
			})
			return
		}

		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rateErr.RetryAfter.Seconds()))))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limited",
			"message": rateErr.Message,
			"code":    "RATE_LIMIT_EXCEEDED",
		})
	}
}
