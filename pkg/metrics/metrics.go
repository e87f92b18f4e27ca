package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "gilbot", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "gilbot", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	VersionsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "gilbot", Name: "syllabus_versions_appended_total", Help: "Number of syllabus versions written to the ledger."},
	)
	VersionConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "gilbot", Name: "syllabus_version_conflicts_total", Help: "Number of concurrent-write conflicts surfaced to callers."},
	)
	DiffsComputed = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "gilbot", Name: "syllabus_diffs_total", Help: "Number of version diffs computed."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(VersionsAppended)
	reg.MustRegister(VersionConflicts)
	reg.MustRegister(DiffsComputed)
}
