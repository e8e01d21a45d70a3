package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kyrisk"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Risk engine metrics
var (
	HazardsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hazards_scored_total",
			Help:      "Total number of hazard candidates scored",
		},
	)

	FinalRisk = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_risk",
			Help:      "Distribution of final risk scores",
			Buckets:   []float64{5, 10, 15, 25, 35, 50, 75, 100, 150},
		},
	)

	TradeClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trade_classifications_total",
			Help:      "Total number of work descriptions classified, by trade",
		},
		[]string{"trade"},
	)
)

// Text triage metrics
var (
	TriageLines = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triage_lines_total",
			Help:      "Lines seen by the triage engine, by stage",
		},
		[]string{"stage"}, // input, duplicate, baseline, selected
	)

	BackfillLines = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_lines_total",
			Help:      "Lines added by fallback completion, by source",
		},
		[]string{"source"}, // template, generic
	)
)

// Collaborator metrics
var (
	AIAPICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_api_calls_total",
			Help:      "Total number of AI API calls",
		},
		[]string{"status"},
	)

	PhotoScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_scores_total",
			Help:      "Total number of site photos scored",
		},
		[]string{"status"},
	)

	RulesetReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ruleset_reloads_total",
			Help:      "Total number of ruleset reload attempts",
		},
		[]string{"status"},
	)
)

// AI cost tracking metrics (aggregate totals, no per-caller label)
var (
	AITokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_tokens_total",
			Help:      "Total AI tokens consumed",
		},
		[]string{"type"}, // "input" or "output"
	)

	AICostCentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_cost_cents_total",
			Help:      "Total AI cost in cents",
		},
	)
)
