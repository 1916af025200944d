package http

import (
	"fmt"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
)

func RateLimitMiddleware(
	limiter *RateLimiter,
	log *logrus.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ip, _, _ := net.SplitHostPort(r.RemoteAddr)

		allowed, remaining := limiter.Allow(ip)
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			log.Warnf("rate limit exceeded for %s on %s", ip, r.URL.Path)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
