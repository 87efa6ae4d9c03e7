// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "capsearch"

var (
	// CacheOperationsTotal tracks transcript cache operations.
	// Labels:
	//   - operation: get, set
	//   - status: hit, miss, success, error
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of transcript cache operations",
		},
		[]string{"operation", "status"},
	)

	// QuotaChecksTotal counts quota reservations (ledger reads at the start
	// of a request).
	QuotaChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_checks_total",
			Help:      "Total number of quota reservations",
		},
	)

	// QuotaCommitsTotal counts searches actually charged against a quota.
	QuotaCommitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_commits_total",
			Help:      "Total number of committed quota charges",
		},
	)

	// UpstreamFetchesTotal tracks caption fetches against the upstream
	// provider.
	// Labels:
	//   - status: success, no_captions, error
	UpstreamFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetches_total",
			Help:      "Total number of upstream caption fetches",
		},
		[]string{"status"},
	)

	// SingleflightRequestsTotal tracks fetch coalescing behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Upstream fetch status constants.
const (
	UpstreamStatusSuccess    = "success"
	UpstreamStatusNoCaptions = "no_captions"
	UpstreamStatusError      = "error"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
