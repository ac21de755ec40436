package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=rate_limiting_mocks_test.go -package=middleware_test

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

type RateLimitParams struct {
	// Name prefixes the per client limiter key, e.g. "login" -> "login:<ip>".
	Name    string
	Allowed int
	Window  time.Duration
	Message string

	// TrustProxyHeaders keys clients by X-Real-Ip / X-Forwarded-For instead of the peer address.
	// Only safe when a proxy in front of the service overwrites those headers.
	TrustProxyHeaders bool
}

func (p RateLimitParams) limit() redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   p.Allowed,
		Burst:  p.Allowed,
		Period: p.Window,
	}
}

func RateLimit(
	rateLimiter RequestRateLimiter,
	params RateLimitParams,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			clientIP, err := pkg.ReadUserIP(r, params.TrustProxyHeaders)
			if err != nil {
				log.Warnf("rate limit [%s]: read client ip: %s", params.Name, err)
				clientIP = "unknown"
			}

			res, err := rateLimiter.Allow(r.Context(), params.Name+":"+clientIP, params.limit())
			if err != nil {
				log.Errorf("rate limit [%s]: %s", params.Name, err)
				pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			w.Header().Set("RateLimit-Limit", strconv.Itoa(params.Allowed))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(res.ResetAfter)))

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			log.Warnf("rate limit [%s] exceeded for [%s], retry after %s", params.Name, clientIP, res.RetryAfter)

			w.Header().Set("Retry-After", strconv.Itoa(ceilSeconds(res.RetryAfter)))
			message := params.Message
			if message == "" {
				message = "Too many requests, please try again later"
			}
			pkg.WriteJSONError(w, http.StatusTooManyRequests, message)
		})
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
