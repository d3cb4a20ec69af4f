package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter in Redis, keyed per client IP and
// route. Fails open: if Redis is unreachable the request goes through.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{redis: redisClient}
}

// Limit allows max requests per window for each (route, IP) pair.
func (rl *RateLimiter) Limit(name string, max int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.IP())

		count, err := rl.redis.Incr(c.Context(), key).Result()
		if err != nil {
			log.Printf("[RATELIMIT] Redis error for %s: %v", key, err)
			return c.Next()
		}

		if count == 1 {
			if err := rl.redis.Expire(c.Context(), key, window).Err(); err != nil {
				log.Printf("[RATELIMIT] Failed to set TTL for %s: %v", key, err)
			}
		}

		if count > int64(max) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests, please try again later",
			})
		}

		return c.Next()
	}
}
