package middleware

import (
	"fmt"
	"net"
	"net/http"

	internal_errors "github.com/concreteguy/homepage/internal/errors"
	"github.com/concreteguy/homepage/internal/middleware/ratelimiter"
)

// RateLimit rejects requests whose identity has run out of tokens.
// Admins are never limited.
func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetRequestContext(r).IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				http.Error(w, err.Error(), internal_errors.StatusCode(err))
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr. Forwarding headers are not
// trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("invalid IP address: %s", ip),
			StatusCode: http.StatusBadRequest,
		}
	}
	return ip, nil
}

// LimitByIP is RateLimit keyed on the client IP.
func LimitByIP(rl *ratelimiter.UserRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, GetIP)
}
