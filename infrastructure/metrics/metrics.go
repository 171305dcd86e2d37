package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// TokensIssued counts minted token pairs by reason (login, refresh).
	TokensIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamhub",
		Subsystem: "auth",
		Name:      "tokens_issued_total",
		Help:      "Total number of issued token pairs",
	}, []string{"reason"})

	// TokenVerifications counts verifications by token type and outcome (ok, invalid, expired).
	TokenVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamhub",
		Subsystem: "auth",
		Name:      "token_verifications_total",
		Help:      "Total number of token verifications",
	}, []string{"type", "outcome"})

	// RefreshReuse counts refresh tokens that verified but no longer matched the stored value.
	RefreshReuse = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "streamhub",
		Subsystem: "auth",
		Name:      "refresh_reuse_total",
		Help:      "Number of rejected stale refresh tokens",
	})

	// SubscriptionToggles counts toggles by resulting state.
	SubscriptionToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamhub",
		Subsystem: "graph",
		Name:      "subscription_toggles_total",
		Help:      "Total number of subscription toggles",
	}, []string{"state"})

	// HTTPRequests counts handled requests by route and status class.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamhub",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of handled HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPLatency observes request latency in seconds.
	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "streamhub",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of handled HTTP requests (seconds)",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Register registers every collector once. Without arguments the default registerer is used.
func Register(registerers ...prometheus.Registerer) {
	once.Do(func() {
		var reg prometheus.Registerer
		if len(registerers) > 0 && registerers[0] != nil {
			reg = registerers[0]
		} else {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(
			TokensIssued,
			TokenVerifications,
			RefreshReuse,
			SubscriptionToggles,
			HTTPRequests,
			HTTPLatency,
		)
	})
}
