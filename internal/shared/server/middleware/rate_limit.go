package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"star-backend/internal/shared/metrics"
	"star-backend/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"
	bucketSweepInterval   = time.Minute
)

// RateLimitRule is a token bucket: Burst requests, refilled at Rate per second.
type RateLimitRule struct {
	Rate        float64
	Burst       int
	Description string
}

// PerWindow builds a rule admitting n requests per window, refilled evenly.
func PerWindow(n int, window time.Duration) RateLimitRule {
	if n <= 0 || window <= 0 {
		return RateLimitRule{}
	}
	return RateLimitRule{
		Rate:        float64(n) / window.Seconds(),
		Burst:       n,
		Description: fmt.Sprintf("%d per %s", n, describeWindow(window)),
	}
}

func describeWindow(d time.Duration) string {
	switch {
	case d%(24*time.Hour) == 0:
		return fmt.Sprintf("%d day", d/(24*time.Hour))
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hour", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minute", d/time.Minute)
	default:
		return d.String()
	}
}

// RateLimitConfig maps route groups to the rules every request in the group
// must pass. Groups without rules are not limited.
type RateLimitConfig struct {
	Rules        map[string][]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	now       func() time.Time
	lastSweep time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
	rate   float64
	burst  int
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets:   make(map[string]*rateBucket),
		now:       now,
		lastSweep: now(),
	}
}

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rules, ok := cfg.Rules[group]
		if !ok || len(rules) == 0 {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.ClientIP()) + "|" + group
		allowed, retryAfter, rule := cfg.Limiter.AllowAll(key, rules)
		if allowed {
			c.Next()
			return
		}
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		metrics.IncRateLimited()
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "Rate limit exceeded", rule.Description)
	}
}

// Allow consumes one token for key under a single rule.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	allowed, retryAfter, _ := l.AllowAll(key, []RateLimitRule{rule})
	return allowed, retryAfter
}

// AllowAll consumes one token from every rule's bucket when all of them have
// one. Otherwise nothing is consumed and the longest wait is returned with
// the rule that imposes it.
func (l *RateLimiter) AllowAll(key string, rules []RateLimitRule) (bool, time.Duration, RateLimitRule) {
	if l == nil {
		return true, 0, RateLimitRule{}
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	var (
		blocked    bool
		retryAfter time.Duration
		blocking   RateLimitRule
		active     []*rateBucket
	)
	for i, rule := range rules {
		if rule.Rate <= 0 || rule.Burst <= 0 {
			continue
		}
		bucket := l.refill(key+"|"+strconv.Itoa(i), rule, now)
		active = append(active, bucket)
		if bucket.tokens >= 1 {
			continue
		}
		needed := 1 - bucket.tokens
		// The epsilon absorbs float error so whole-second waits stay whole.
		wait := time.Duration(math.Ceil(needed/rule.Rate*1000.0-1e-6)) * time.Millisecond
		if !blocked || wait > retryAfter {
			retryAfter = wait
			blocking = rule
		}
		blocked = true
	}
	if blocked {
		return false, retryAfter, blocking
	}
	for _, b := range active {
		b.tokens -= 1
	}
	return true, 0, RateLimitRule{}
}

func (l *RateLimiter) refill(key string, rule RateLimitRule, now time.Time) *rateBucket {
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{
			tokens: float64(rule.Burst),
			last:   now,
			rate:   rule.Rate,
			burst:  rule.Burst,
		}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	return bucket
}

// sweep drops buckets that have refilled to capacity. A missing bucket starts
// full, so removing them does not change any decision.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < bucketSweepInterval {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		elapsed := now.Sub(b.last).Seconds()
		if b.tokens+elapsed*b.rate >= float64(b.burst) {
			delete(l.buckets, key)
		}
	}
}
