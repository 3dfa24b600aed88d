package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ledgerApplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_applies_total",
			Help: "Total committed ledger deltas",
		},
		[]string{"currency", "direction"},
	)
	dailyClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daily_claims_total",
			Help: "Daily reward claim attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(ledgerApplies)
	prometheus.MustRegister(dailyClaims)
}
