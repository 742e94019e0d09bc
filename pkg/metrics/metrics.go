package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "storefront", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "storefront", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// SessionRefreshes counts access token refresh attempts by outcome (success, failure, skipped).
	SessionRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "storefront", Name: "session_refresh_total", Help: "Access token refresh attempts by outcome."},
		[]string{"outcome"},
	)
	RetriedRequests = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "storefront", Name: "upstream_retried_requests_total", Help: "Upstream requests re-issued after a successful token refresh."},
	)
	CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "storefront", Name: "cart_mutations_total", Help: "Cart mutations by operation."},
		[]string{"op"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SessionRefreshes)
	reg.MustRegister(RetriedRequests)
	reg.MustRegister(CartMutations)
}
