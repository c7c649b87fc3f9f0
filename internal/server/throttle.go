// internal/server/throttle.go
package server

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	apperrors "parche-recommender/internal/common/errors"
	"parche-recommender/internal/common/metrics"
)

// throttle allows one chat call per interval for each client. Limiters are
// evicted after idleTTL without traffic.
type throttle struct {
	interval time.Duration
	limiters *cache.Cache
	mu       sync.Mutex
}

func newThrottle(interval, idleTTL time.Duration) *throttle {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &throttle{
		interval: interval,
		limiters: cache.New(idleTTL, idleTTL/2),
	}
}

func (t *throttle) allow(key string) bool {
	if t.interval <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var limiter *rate.Limiter
	if v, ok := t.limiters.Get(key); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rate.Every(t.interval), 1)
	}
	t.limiters.SetDefault(key, limiter)

	return limiter.Allow()
}

func (t *throttle) middleware(log Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := clientKey(c)
		if !t.allow(key) {
			metrics.ThrottledRequests.Inc()
			log.Warn("chat request throttled", map[string]interface{}{
				"client":    key,
				"requestId": requestIDFrom(c),
			})
			return writeError(c, apperrors.NewThrottledError(key))
		}
		return c.Next()
	}
}

func clientKey(c *fiber.Ctx) string {
	if id := c.Get(clientIDHeader); id != "" {
		return "client:" + id
	}
	return "ip:" + c.IP()
}
