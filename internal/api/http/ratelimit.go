package http

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/goodhive/onboarding-service/internal/observability"
	"github.com/goodhive/onboarding-service/internal/ratelimit"
)

// RateLimit guards a route with the fixed-window limiter. Buckets are keyed
// by client IP and route path so each public endpoint has its own budget.
func RateLimit(limiter *ratelimit.Limiter, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route := c.Route().Path
		res := limiter.Allow(c.UserContext(), c.IP()+":"+route)

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
		if res.Allowed {
			return c.Next()
		}

		retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		metrics.RecordRateLimited(route)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many requests"})
	}
}
