package server

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// visitorLimiter holds one token bucket per client IP. Buckets are dropped
// after ten minutes so the map does not grow with every visitor ever seen.
type visitorLimiter struct {
	mu       sync.Mutex
	visitors  map[string]*rate.Limiter
	rateLimit rate.Limit
	burst     int
}

func newVisitorLimiter(limit rate.Limit, burst int) *visitorLimiter {
	return &visitorLimiter{
		visitors:  make(map[string]*rate.Limiter),
		rateLimit: limit,
		burst:     burst,
	}
}

func (vl *visitorLimiter) get(ip string) *rate.Limiter {
	vl.mu.Lock()
	defer vl.mu.Unlock()

	if limiter, ok := vl.visitors[ip]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(vl.rateLimit, vl.burst)
	vl.visitors[ip] = limiter

	go func() {
		time.Sleep(10 * time.Minute)
		vl.mu.Lock()
		delete(vl.visitors, ip)
		vl.mu.Unlock()
	}()
	return limiter
}

// limit enforces the per-IP rate limit on a single route.
func (vl *visitorLimiter) limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !vl.get(ip).Allow() {
			respondError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r, ps)
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start))
	})
}
