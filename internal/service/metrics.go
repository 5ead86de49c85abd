package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"docsign/internal/model"
)

// Metrics are the engine counters. A nil *Metrics records nothing.
type Metrics struct {
	transactions *prometheus.CounterVec
	uploads      *prometheus.CounterVec
	provisions   *prometheus.CounterVec
}

// NewMetrics creates the engine counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsign_transactions_total",
				Help: "Mutating ledger requests by entry function and outcome.",
			},
			[]string{"function", "outcome"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsign_uploads_total",
				Help: "Content store uploads by result.",
			},
			[]string{"result"},
		),
		provisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsign_provision_total",
				Help: "Account provisioning attempts by result.",
			},
			[]string{"result"},
		),
	}
	for _, c := range []prometheus.Collector{m.transactions, m.uploads, m.provisions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) transaction(fn model.EntryFunction, outcome string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(string(fn), outcome).Inc()
}

func (m *Metrics) upload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}

func (m *Metrics) provision(result string) {
	if m == nil {
		return
	}
	m.provisions.WithLabelValues(result).Inc()
}
