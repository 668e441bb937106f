package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/pkg/logger"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-ID"

// DefaultBodyLimit caps JSON request bodies. Uploads use their own limit.
const DefaultBodyLimit = 1 << 20

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

// CORS allows the given origins. An empty list or "*" allows any origin.
func CORS(origins ...string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, "+RequestIDHeader)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestID echoes the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request. Server errors log at error
// level with the errors handlers attached to the context.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", append(kv, "errors", c.Errors.String())...)
		case status >= http.StatusBadRequest:
			log.Warn("request rejected", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}

// RequestSizeLimit caps the body of write requests at maxBytes. Reads past
// the cap fail with *http.MaxBytesError.
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RateLimiter keeps one token bucket per client IP. Idle clients are
// evicted by a background sweep that Stop ends.
type RateLimiter struct {
	limiters  sync.Map
	stop      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once

	idleAfter time.Duration
	sweep     time.Duration
}

// NewRateLimiter creates a limiter set. The sweep starts on first use.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		stop:      make(chan struct{}),
		idleAfter: 10 * time.Minute,
		sweep:     5 * time.Minute,
	}
}

// PerClient returns middleware allowing rps requests per second with the
// given burst. Buckets are keyed by route group as well as client, so a
// busy upload client does not starve its reads.
func (rl *RateLimiter) PerClient(scope string, rps, burst int) gin.HandlerFunc {
	rl.startOnce.Do(func() {
		go rl.cleanup()
	})
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = rps
	}

	return func(c *gin.Context) {
		key := scope + "|" + c.ClientIP()
		v, _ := rl.limiters.LoadOrStore(key, &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rps), burst),
		})
		cl := v.(*clientLimiter)

		cl.mu.Lock()
		cl.lastSeen = time.Now()
		allowed := cl.limiter.Allow()
		cl.mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Rate limit exceeded. Please slow down your requests.",
				Error:   "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle(time.Now())
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) int {
	evicted := 0
	rl.limiters.Range(func(key, value interface{}) bool {
		cl := value.(*clientLimiter)
		cl.mu.Lock()
		idle := now.Sub(cl.lastSeen) > rl.idleAfter
		cl.mu.Unlock()
		if idle {
			rl.limiters.Delete(key)
			evicted++
		}
		return true
	})
	return evicted
}
