package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	earnEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewards_earn_events_total",
		Help: "Earn postbacks processed, labeled by outcome",
	}, []string{"outcome"})

	roundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewards_game_rounds_total",
		Help: "Settled game rounds, labeled by variant and result",
	}, []string{"variant", "result"})

	roundLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rewards_round_settle_duration_seconds",
		Help:    "Latency of bet resolution plus settlement",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"variant"})

	giftCardClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewards_giftcard_claims_total",
		Help: "Gift card claim attempts, labeled by outcome",
	}, []string{"outcome"})

	walletResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewards_wallet_resolutions_total",
		Help: "Wallet transactions resolved, labeled by kind and decision",
	}, []string{"kind", "decision"})
)
