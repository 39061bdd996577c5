package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorIdle = 10 * time.Minute
	maxVisitors = 10_000
)

// RateLimit applies a per-client token bucket. Exempt paths are never
// limited.
func RateLimit(cfg RateLimitConfig, exempt ...string) Middleware {
	cfg = cfg.withDefaults()
	v := newVisitors(rate.Limit(cfg.RPS), cfg.Burst)
	exemptPaths := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		exemptPaths[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if !v.allow(clientIP(r), time.Now()) {
				w.Header().Set("Retry-After", "1")
				RateLimited(w, r, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// visitors holds one limiter per client address.
type visitors struct {
	mu    sync.Mutex
	seen  map[string]*visitor
	limit rate.Limit
	burst int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newVisitors(limit rate.Limit, burst int) *visitors {
	return &visitors{seen: make(map[string]*visitor), limit: limit, burst: burst}
}

func (v *visitors) allow(key string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	vis, ok := v.seen[key]
	if !ok {
		if len(v.seen) >= maxVisitors {
			v.prune(now)
		}
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.seen[key] = vis
	}
	vis.lastSeen = now
	return vis.limiter.AllowN(now, 1)
}

// prune drops visitors idle for longer than visitorIdle. Callers hold mu.
func (v *visitors) prune(now time.Time) {
	for key, vis := range v.seen {
		if now.Sub(vis.lastSeen) > visitorIdle {
			delete(v.seen, key)
		}
	}
}

// clientIP prefers the first X-Forwarded-For hop over the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
