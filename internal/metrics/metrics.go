// Package metrics exposes operational counters on the Store and Validator
// using github.com/prometheus/client_golang, mirroring the donor's own
// /metrics wiring in pkg/server, narrowed to the handful of counters that
// matter for a content-addressed container store: reader hit/miss and
// hash-mismatch counts, and validator nodes-checked/invalid counts.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ReaderHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provtool_reader_hits_total",
		Help: "Number of container reads resolved successfully, by reader plugin.",
	}, []string{"reader"})

	ReaderMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provtool_reader_misses_total",
		Help: "Number of container reads that failed, by reader plugin.",
	}, []string{"reader"})

	HashMismatches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provtool_hash_mismatches_total",
		Help: "Number of integrity checks (cid or datahash) that failed.",
	})

	ValidatorNodesChecked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provtool_validator_nodes_checked_total",
		Help: "Number of distinct entities visited by the chain validator.",
	})

	ValidatorNodesInvalid = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provtool_validator_nodes_invalid_total",
		Help: "Number of entities the chain validator marked invalid.",
	})
)

// Registry is the process-wide collector registry; cmd/validator serves it
// on /metrics when PROVTOOL_METRICS_ADDR is set. The reader and
// hash-mismatch counters are incremented by the validator's container reads.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(ReaderHits, ReaderMisses, HashMismatches, ValidatorNodesChecked, ValidatorNodesInvalid)
}
