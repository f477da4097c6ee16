package services

import (
	goctx "context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"

	"github.com/deutschai/deutschai_api/shared"
)

// windowStore is the slice of redis the limiter needs.
type windowStore interface {
	Incr(ctx goctx.Context, key string) (int64, error)
	Expire(ctx goctx.Context, key string, ttl time.Duration) error
}

// RateLimitService throttles the tutor endpoints per account with a
// redis fixed window. Every tutor request costs an upstream provider
// call, so the window guards spend, not fairness.
type RateLimitService struct {
	context.DefaultService

	store windowStore

	maxRequests int
	window      time.Duration
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.maxRequests = 30
	if v := os.Getenv("TUTOR_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.maxRequests = n
		}
	}
	svc.window = time.Minute

	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.store = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// hit counts one request against the account's current window. The
// expiry is set only on the window's first hit; refreshing it on every
// request would keep the key alive under sustained traffic and the
// count would never reset.
func (svc *RateLimitService) hit(ctx goctx.Context, key string) (int64, error) {
	count, err := svc.store.Incr(ctx, key)
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := svc.store.Expire(ctx, key, svc.window); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// TutorLimit is the middleware for the tutor routes. It runs after auth
// so the window is keyed by account, not address. Redis being down
// fails open: a throttle outage must not take tutoring down with it.
func (svc *RateLimitService) TutorLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(shared.UserID).(uint)
		if !ok {
			return shared.ResponseUnauthorized(c)
		}

		key := fmt.Sprintf("ratelimit:tutor:%d", userID)
		count, err := svc.hit(c.Context(), key)
		if err != nil {
			log.WithError(err).Warn("Rate limit check failed, allowing request")
			return c.Next()
		}

		if count > int64(svc.maxRequests) {
			retryAfter := int(svc.window.Seconds())
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too many requests", nil)
		}

		return c.Next()
	}
}
