package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the HTTP API.
type Metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	assessments *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	captures    *prometheus.CounterVec
}

// MustNewMetrics creates the collectors and registers them with reg, panicking
// on a registration error. A nil reg uses the default registerer.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fluentplan",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route, method and status code.",
			},
			[]string{"route", "method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fluentplan",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		assessments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fluentplan",
				Name:      "assessments_total",
				Help:      "Completed assessments by learner profile.",
			},
			[]string{"profile"},
		),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fluentplan",
				Name:      "evaluations_total",
				Help:      "Evaluate calls by cache outcome.",
			},
			[]string{"cache"},
		),
		captures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fluentplan",
				Name:      "email_captures_total",
				Help:      "Email capture attempts by outcome.",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.requests, m.latency, m.assessments, m.evaluations, m.captures)
	return m
}

func (m *Metrics) observeRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) assessmentSaved(profile string) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(profile).Inc()
}

func (m *Metrics) evaluated(cacheHit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.evaluations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) captured(outcome string) {
	if m == nil {
		return
	}
	m.captures.WithLabelValues(outcome).Inc()
}
