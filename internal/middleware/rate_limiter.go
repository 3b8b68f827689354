package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shelfwise/internal/apierror"
)

// windowCounter tracks request counts per IP within a sliding window.
type windowCounter struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type limiter struct {
	entries map[string]*windowCounter
	mu      sync.Mutex
	limit   int
	window  time.Duration
	message string
}

var limiters []*limiter
var limitersMu sync.Mutex

func newLimiter(limit int, window time.Duration, message string) *limiter {
	l := &limiter{
		entries: make(map[string]*windowCounter),
		limit:   limit,
		window:  window,
		message: message,
	}
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	return l
}

func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	entry, exists := l.entries[ip]
	if !exists {
		entry = &windowCounter{}
		l.entries[ip] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

// RateLimiter returns a general-purpose sliding-window limiter per client IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimiter(limit, window, "Too many requests. Try again in a moment.")
	return l.handler(true)
}

// SignInRateLimiter limits sign-in attempts to 20 per minute per IP, slowing
// credential stuffing without locking accounts.
func SignInRateLimiter() gin.HandlerFunc {
	l := newLimiter(20, time.Minute, "Too many sign-in attempts. Try again in 1 minute.")
	return l.handler(false)
}

func (l *limiter) handler(retryAfter bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			if retryAfter {
				c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so IPs that never return do not
// accumulate forever.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		limitersMu.Lock()
		active := make([]*limiter, len(limiters))
		copy(active, limiters)
		limitersMu.Unlock()

		for _, l := range active {
			l.mu.Lock()
			for ip, entry := range l.entries {
				entry.mu.Lock()
				if now.After(entry.windowEnd) {
					delete(l.entries, ip)
					purged++
				}
				entry.mu.Unlock()
			}
			l.mu.Unlock()
		}

		if purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
		}
	}
}
