package server

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lankaconnect/eventpricing/internal/observability/logger"
	"go.uber.org/zap"
)

// rateLimitQuotes throttles quote requests per client IP. Limiter failures
// let the request through.
func (s *Server) rateLimitQuotes() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		res, err := s.quoteLimit.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("quote rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		if res.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}
		if !res.Allowed {
			seconds := int(math.Ceil(res.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
