package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// tokenBucket implements token bucket rate limiting for one client.
type tokenBucket struct {
	mu         sync.Mutex
	capacity   int
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

func newTokenBucket(capacity, refillRate int) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		tokens:     float64(capacity),
		refillRate: float64(refillRate),
		lastRefill: time.Now(),
	}
}

// take consumes one token if available. When the bucket is empty it reports
// how long until the next token becomes available.
func (tb *tokenBucket) take() (ok bool, retryAfter time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}

	deficit := 1 - tb.tokens
	return false, time.Duration(deficit / tb.refillRate * float64(time.Second))
}

// RateLimiter manages one bucket per client IP.
type RateLimiter struct {
	mu         sync.RWMutex
	buckets    map[string]*tokenBucket
	capacity   int
	refillRate int
}

// NewRateLimiter creates a limiter allowing capacity burst and refillRate
// requests per second per client.
func NewRateLimiter(capacity, refillRate int) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*tokenBucket),
		capacity:   capacity,
		refillRate: refillRate,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) bucket(key string) *tokenBucket {
	rl.mu.RLock()
	b, exists := rl.buckets[key]
	rl.mu.RUnlock()
	if exists {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b, exists := rl.buckets[key]; exists {
		return b
	}
	b = newTokenBucket(rl.capacity, rl.refillRate)
	rl.buckets[key] = b
	return b
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, b := range rl.buckets {
			b.mu.Lock()
			if now.Sub(b.lastRefill) > 10*time.Minute {
				delete(rl.buckets, key)
			}
			b.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}

// rateLimitBody is the standard 429 response shape consumed by API clients.
type rateLimitBody struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	RetryAfter int    `json:"retry_after"`
	Timestamp  string `json:"timestamp"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	ResetTime  string `json:"reset_time"`
	ClientIP   string `json:"client_ip"`
}

// RateLimit enforces a per-IP token bucket. Rejected requests carry
// Retry-After and X-RateLimit-* headers plus a structured JSON body.
// Health probes are exempt.
func (rl *RateLimiter) RateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/health" || path == "/healthz" || path == "/metrics" {
			return c.Next()
		}

		ip := c.IP()
		ok, retryAfter := rl.bucket(ip).take()
		if ok {
			return c.Next()
		}

		seconds := int(retryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		now := time.Now().UTC()
		reset := now.Add(retryAfter)

		c.Set("Retry-After", strconv.Itoa(seconds))
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.capacity))
		c.Set("X-RateLimit-Remaining", "0")
		c.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		return c.Status(fiber.StatusTooManyRequests).JSON(rateLimitBody{
			Error:      "Rate limit exceeded",
			Detail:     "too many requests, slow down",
			RetryAfter: seconds,
			Timestamp:  now.Format(time.RFC3339),
			Limit:      rl.capacity,
			Remaining:  0,
			ResetTime:  reset.Format(time.RFC3339),
			ClientIP:   ip,
		})
	}
}
