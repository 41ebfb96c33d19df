// Package metrics holds the fetch-side prometheus counters. No exposition
// endpoint is wired here; callers register against their own registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	BlocksFetched   prometheus.Counter
	HeightsFailed   prometheus.Counter
	ReceiptsFetched prometheus.Counter
	RemoteRetries   prometheus.Counter
}

// New builds the counter set and registers it on reg. A nil reg leaves the
// counters unregistered but functional, which is what library callers that
// don't care about metrics get.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BlocksFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "berastats_blocks_fetched_total",
			Help: "Blocks successfully fetched and normalized.",
		}),
		HeightsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "berastats_heights_failed_total",
			Help: "Heights abandoned after exhausting retries.",
		}),
		ReceiptsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "berastats_receipts_fetched_total",
			Help: "Transaction receipts fetched.",
		}),
		RemoteRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "berastats_remote_retries_total",
			Help: "Remote calls retried after a transient failure.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.BlocksFetched, m.HeightsFailed, m.ReceiptsFetched, m.RemoteRetries)
	}
	return m
}
