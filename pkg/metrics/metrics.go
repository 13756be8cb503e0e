package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// IndexerRequestsTotal counts requests issued to the Blockfrost API,
	// labeled by logical endpoint and outcome (ok, not_found, rate_limited,
	// unauthorized, upstream_error, network_error).
	IndexerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_requests_total",
			Help: "Number of requests issued to the indexer API.",
		},
		[]string{"endpoint", "outcome"},
	)

	// WalletLoadsTotal counts wallet snapshot assemblies by result.
	WalletLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_loads_total",
			Help: "Number of wallet snapshot loads.",
		},
		[]string{"result"},
	)

	// AssetDetailCacheHitsTotal counts asset detail lookups served from the
	// in-process cache instead of the indexer.
	AssetDetailCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_detail_cache_hits_total",
			Help: "Number of asset detail lookups served from cache.",
		},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Panics on duplicate registration, which indicates a wiring bug.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		IndexerRequestsTotal,
		WalletLoadsTotal,
		AssetDetailCacheHitsTotal,
	)
}
