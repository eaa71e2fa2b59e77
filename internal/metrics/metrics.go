package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wxllspace",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wxllspace",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ProposalDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wxllspace",
		Name:      "proposal_decisions_total",
		Help:      "Proposal accept/reject outcomes.",
	}, []string{"decision", "result"})

	WizardSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wxllspace",
		Name:      "wall_wizard_submissions_total",
		Help:      "Wall wizard submissions by result.",
	}, []string{"result"})

	StatsRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wxllspace",
		Name:      "stats_refreshes_total",
		Help:      "Stats cache refreshes by result.",
	}, []string{"result"})
)

// Result labels an outcome for the counters above.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
