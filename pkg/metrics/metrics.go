// Package metrics provides Prometheus metrics for the Clover service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchesTotal tracks match runs by resulting status
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Total number of match runs by resulting status",
		},
		[]string{"status"},
	)

	// MatchDuration tracks match run duration in seconds
	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "matching",
			Name:      "duration_seconds",
			Help:      "Duration of match runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// MergesTotal tracks merge attempts by outcome
	MergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "merging",
			Name:      "merges_total",
			Help:      "Total number of merge attempts by outcome",
		},
		[]string{"outcome"},
	)

	// MergeDuration tracks merge duration in seconds
	MergeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "merging",
			Name:      "duration_seconds",
			Help:      "Duration of merges in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// MergeConflictsTotal tracks conflicting field keys seen in failed merges
	MergeConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "merging",
			Name:      "conflicts_total",
			Help:      "Total number of merge conflicts by field key",
		},
		[]string{"field"},
	)

	// DebtorsRelinkedTotal tracks debtor relinks by outcome
	DebtorsRelinkedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "merging",
			Name:      "debtors_relinked_total",
			Help:      "Total number of debtor relink attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Merge outcomes.
const (
	OutcomeMerged    = "merged"
	OutcomeConflict  = "conflict"
	OutcomeRetryable = "retryable"
	OutcomeOrphaned  = "orphaned"
	OutcomeRelinked  = "relinked"
)
