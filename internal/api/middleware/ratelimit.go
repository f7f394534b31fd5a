package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter limits requests per client IP. Counters live in redis when a
// client is provided (fixed window, INCR + EXPIRE, shared across replicas);
// otherwise an in-memory sliding window is used.
type RateLimiter struct {
	requests int
	window   time.Duration
	redis    *redis.Client

	mu      sync.Mutex
	clients map[string]*clientWindow
}

type clientWindow struct {
	timestamps []time.Time
}

func NewRateLimiter(rdb *redis.Client, requests int, windowSeconds int) *RateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	rl := &RateLimiter{
		requests: requests,
		window:   time.Duration(windowSeconds) * time.Second,
		redis:    rdb,
		clients:  make(map[string]*clientWindow),
	}

	if rdb == nil {
		go rl.cleanup()
	}

	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, client := range rl.clients {
			if len(client.timestamps) == 0 ||
				now.Sub(client.timestamps[len(client.timestamps)-1]) > rl.window*2 {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether a request from ip is within the limit, along with the
// remaining budget and when the window resets.
func (rl *RateLimiter) Allow(r *http.Request, ip string) (bool, int, time.Time) {
	if rl.redis != nil {
		return rl.allowRedis(r, ip)
	}
	return rl.allowMemory(ip)
}

func (rl *RateLimiter) allowRedis(r *http.Request, ip string) (bool, int, time.Time) {
	ctx := r.Context()
	key := "ratelimit:" + ip

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		// Redis down: fail open rather than reject traffic.
		return true, rl.requests, time.Now().Add(rl.window)
	}
	if count == 1 {
		rl.redis.Expire(ctx, key, rl.window)
	}

	ttl, err := rl.redis.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = rl.window
	}
	reset := time.Now().Add(ttl)

	remaining := rl.requests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(rl.requests), remaining, reset
}

func (rl *RateLimiter) allowMemory(ip string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[ip]
	if !ok {
		client = &clientWindow{timestamps: make([]time.Time, 0, rl.requests)}
		rl.clients[ip] = client
	}

	now := time.Now()
	windowStart := now.Add(-rl.window)

	valid := client.timestamps[:0]
	for _, ts := range client.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	client.timestamps = valid

	if len(client.timestamps) >= rl.requests {
		return false, 0, client.timestamps[0].Add(rl.window)
	}

	client.timestamps = append(client.timestamps, now)
	return true, rl.requests - len(client.timestamps), now.Add(rl.window)
}

// RateLimit returns a middleware applying the limiter to every request.
func RateLimit(rdb *redis.Client, requests int, windowSeconds int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rdb, requests, windowSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			allowed, remaining, reset := limiter.Allow(r, ip)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
