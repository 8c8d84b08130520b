package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/port"
)

const (
	rateLimitProblemType  = "https://homes.example.com/errors/rate-limit-exceeded"
	rateLimitProblemTitle = "Rate Limit Exceeded"
)

// ProblemDetails represents an RFC 9457 compatible error payload for rate limits.
type ProblemDetails struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail"`
	Instance   string `json:"instance"`
	RetryAfter int    `json:"retry_after"`
	TraceID    string `json:"trace_id,omitempty"`
}

// RateLimiter throttles an endpoint with a sliding window keyed by client IP.
type RateLimiter struct {
	store  port.RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter builds a reusable rate limiter middleware helper.
func NewRateLimiter(store port.RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// Limit enforces at most limit requests per window per client IP on the
// wrapped endpoint. Store failures fail open so Redis downtime never blocks
// traffic.
func (rl *RateLimiter) Limit(name string, limit int, window time.Duration) gin.HandlerFunc {
	if name == "" {
		name = "default"
	}

	return func(c *gin.Context) {
		if rl.store == nil || limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", name, ip)
		ctx := c.Request.Context()
		now := rl.now()

		if err := rl.store.TrimWindow(ctx, key, window, now); err != nil {
			rl.logger.Warn("rate limit trim failed", zap.String("rule", name), zap.Error(err))
			c.Next()
			return
		}

		count, err := rl.store.CountAttempts(ctx, key, window, now)
		if err != nil {
			rl.logger.Warn("rate limit count failed", zap.String("rule", name), zap.Error(err))
			c.Next()
			return
		}

		reset := now.Add(window)
		if oldest, found, err := rl.store.OldestAttempt(ctx, key, window, now); err == nil && found {
			reset = oldest.Add(window)
		}

		if count >= limit {
			retryAfter := reset.Sub(now)
			if retryAfter < 0 {
				retryAfter = 0
			}
			rl.writeHeaders(c, limit, 0, reset)
			rl.reject(c, retryAfter)
			return
		}

		if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
			rl.logger.Warn("rate limit record failed", zap.String("rule", name), zap.Error(err))
			c.Next()
			return
		}

		remaining := limit - count - 1
		if remaining < 0 {
			remaining = 0
		}
		rl.writeHeaders(c, limit, remaining, reset)

		c.Next()
	}
}

func (rl *RateLimiter) writeHeaders(c *gin.Context, limit, remaining int, reset time.Time) {
	headers := c.Writer.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
}

func (rl *RateLimiter) reject(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	c.Writer.Header().Set("Retry-After", strconv.Itoa(seconds))

	instance := c.FullPath()
	if instance == "" {
		instance = c.Request.URL.Path
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ProblemDetails{
		Type:       rateLimitProblemType,
		Title:      rateLimitProblemTitle,
		Status:     http.StatusTooManyRequests,
		Detail:     fmt.Sprintf("Too many requests. Try again in %d seconds.", seconds),
		Instance:   instance,
		RetryAfter: seconds,
		TraceID:    GetTraceID(c),
	})
}
