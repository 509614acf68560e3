package middleware

import (
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
)

// Limiter is an increment-and-check counter keyed by caller identity
// within a fixed window. The in-process implementation below is only
// suitable for single-instance deployments; multi-process deployments
// should back this interface with a shared store.
type Limiter interface {
	// Allow records a request for key and reports whether it is within
	// the limit. When denied, retryAfter is the time until the window resets.
	Allow(key string) (allowed bool, retryAfter time.Duration)
	// Stop releases any background resources held by the limiter.
	Stop()
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// WindowLimiter is a best-effort in-memory fixed-window rate limiter.
// Counters reset on process restart and are pruned periodically.
type WindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry

	window time.Duration
	max    int

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewWindowLimiter creates a limiter allowing max requests per key per window.
func NewWindowLimiter(window time.Duration, max int) *WindowLimiter {
	l := &WindowLimiter{
		entries:     make(map[string]*windowEntry),
		window:      window,
		max:         max,
		stopCleanup: make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow implements Limiter.
func (l *WindowLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.entries[key]
	if !ok || entry.resetAt.Before(now) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	if entry.count >= l.max {
		return false, entry.resetAt.Sub(now)
	}

	entry.count++
	return true, 0
}

// Stop terminates the cleanup goroutine.
func (l *WindowLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCleanup)
	})
}

// cleanupLoop prunes expired windows once a minute to bound memory.
func (l *WindowLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.prune()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *WindowLimiter) prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, entry := range l.entries {
		if entry.resetAt.Before(now) {
			delete(l.entries, key)
		}
	}
}

// RateLimit returns a middleware that rejects requests exceeding the
// limiter's budget with 429 and a retry_after hint in seconds.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := limiter.Allow(c.ClientIP())
		if !allowed {
			c.JSON(apperrors.ErrRateLimited.StatusCode, gin.H{
				"error": gin.H{
					"code":        apperrors.ErrRateLimited.Code,
					"message":     apperrors.ErrRateLimited.Message,
					"retry_after": int(math.Ceil(retryAfter.Seconds())),
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
