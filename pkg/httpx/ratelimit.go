package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/uaa/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimit allows Requests per Window per key, with Burst requests
// available up front.
type RateLimit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

// Built in profiles. The app config may override them from RATELIMIT_*.
var (
	// StrictLimit guards credential checks such as the token endpoint.
	StrictLimit = RateLimit{Requests: 10, Window: time.Minute, Burst: 10}

	// ModerateLimit guards authenticated mutations.
	ModerateLimit = RateLimit{Requests: 30, Window: time.Minute, Burst: 30}

	// LenientLimit guards authenticated reads.
	LenientLimit = RateLimit{Requests: 120, Window: time.Minute, Burst: 120}
)

// KeyFunc groups requests into rate limit buckets.
type KeyFunc func(*http.Request) string

// ClientIP returns the caller address, honouring X-Forwarded-For and
// X-Real-IP when set by a proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Subject keys on the authenticated token subject, falling back to the
// client IP for anonymous calls.
func Subject(r *http.Request) string {
	if c, ok := ClaimsFromContext(r.Context()); ok && c.Subject != "" {
		return "sub:" + c.Subject
	}
	return "ip:" + ClientIP(r)
}

// FormField keys on the client IP plus the value of a form field, e.g.
// client_id on the token endpoint.
func FormField(field string) KeyFunc {
	return func(r *http.Request) string {
		return ClientIP(r) + "|" + r.FormValue(field)
	}
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > s.idleAfter {
		for k, b := range s.buckets {
			if now.Sub(b.lastSeen) > s.idleAfter {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

// RateLimitBy rejects requests with 429 once the bucket for key(r) is empty.
func RateLimitBy(cfg RateLimit, key KeyFunc) Middleware {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	store := &limiterStore{
		buckets:   make(map[string]*bucket),
		limit:     rate.Limit(float64(cfg.Requests) / window.Seconds()),
		burst:     max(cfg.Burst, 1),
		idleAfter: max(window, 5*time.Minute),
		lastSweep: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			res := store.get(k, time.Now()).Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				retry := max(int(delay.Round(time.Second).Seconds()), 1)

				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
				slogx.FromContext(r.Context()).Warn("rate limit exceeded", "key", k, "retry_after", retry)
				WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitFromEnv overrides def with RATELIMIT_<name>_REQUESTS,
// RATELIMIT_<name>_WINDOW and RATELIMIT_<name>_BURST. getenv is usually
// os.Getenv.
func RateLimitFromEnv(getenv func(string) string, name string, def RateLimit) RateLimit {
	out := def
	prefix := "RATELIMIT_" + strings.ToUpper(name) + "_"
	if n, err := strconv.Atoi(getenv(prefix + "REQUESTS")); err == nil && n > 0 {
		out.Requests = n
	}
	if d, err := time.ParseDuration(getenv(prefix + "WINDOW")); err == nil && d > 0 {
		out.Window = d
	}
	if n, err := strconv.Atoi(getenv(prefix + "BURST")); err == nil && n > 0 {
		out.Burst = n
	}
	return out
}
