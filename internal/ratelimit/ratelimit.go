package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	mu         sync.Mutex
	tokens     int
	capacity   int
	rate       int // tokens per second
	lastRefill time.Time
}

// NewTokenBucket creates a new token bucket with the given rate and capacity
func NewTokenBucket(rate, capacity int) *TokenBucket {
	return &TokenBucket{
		tokens:     capacity,
		capacity:   capacity,
		rate:       rate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can be allowed and consumes a token if available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)

	// Add tokens based on elapsed time
	tokensToAdd := int(elapsed.Seconds() * float64(tb.rate))
	if tokensToAdd > 0 {
		tb.tokens += tokensToAdd
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = now
	}

	// Check if we have tokens available
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// ConnLimiter throttles session creation globally and per source IP so one
// misbehaving client cannot monopolize the gateway's accept loop.
type ConnLimiter struct {
	mu            sync.Mutex
	globalLimiter *TokenBucket
	perIPLimiters map[string]*TokenBucket
	perIPRate     int
	burstSize     int
}

// NewConnLimiter creates a limiter; a rate of 0 disables that check.
func NewConnLimiter(globalRate, perIPRate, burstSize int) *ConnLimiter {
	cl := &ConnLimiter{
		perIPLimiters: make(map[string]*TokenBucket),
		perIPRate:     perIPRate,
		burstSize:     burstSize,
	}
	if globalRate > 0 {
		cl.globalLimiter = NewTokenBucket(globalRate, burstSize)
	}
	return cl
}

// Allow reports whether a new connection from ip may be accepted.
func (cl *ConnLimiter) Allow(ip string) bool {
	if cl.globalLimiter != nil && !cl.globalLimiter.Allow() {
		return false
	}

	if cl.perIPRate > 0 {
		cl.mu.Lock()
		bucket, exists := cl.perIPLimiters[ip]
		if !exists {
			bucket = NewTokenBucket(cl.perIPRate, cl.burstSize)
			cl.perIPLimiters[ip] = bucket
		}
		cl.mu.Unlock()

		if !bucket.Allow() {
			return false
		}
	}

	return true
}

// CleanupStale drops per-IP buckets for addresses not seen as active.
func (cl *ConnLimiter) CleanupStale(activeIPs map[string]bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for ip := range cl.perIPLimiters {
		if !activeIPs[ip] {
			delete(cl.perIPLimiters, ip)
		}
	}
}
