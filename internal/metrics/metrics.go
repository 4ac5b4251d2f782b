// Package metrics provides Prometheus metrics for a precheck run.
//
// The tool is a one-shot process, so metrics are not scraped. They are
// written once at the end of the run in the text exposition format, for a
// node_exporter textfile collector to pick up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

// Metrics holds the collectors of a single run on a private registry.
type Metrics struct {
	// Registry gathers every collector below.
	Registry *prometheus.Registry

	// PrecheckOutcomes counts plan prechecks by plan type and outcome.
	PrecheckOutcomes *prometheus.CounterVec

	// PrecheckDuration measures how long each precheck took to reach its outcome.
	PrecheckDuration *prometheus.HistogramVec

	// ActivePlans is the number of active plans found for the protection group.
	ActivePlans prometheus.Gauge

	// LastRunTimestamp is the Unix time the run finished.
	LastRunTimestamp prometheus.Gauge

	// LastRunSuccess is 1 when every precheck passed, 0 otherwise.
	LastRunSuccess prometheus.Gauge

	// Notifications counts failure notifications by status (ok, error).
	Notifications *prometheus.CounterVec

	// APIRequests counts OCI API calls by operation and status (ok, error).
	APIRequests *prometheus.CounterVec

	// APIRequestDuration measures OCI API call latency by operation.
	APIRequestDuration *prometheus.HistogramVec
}

// New creates the run's collectors, labelled with the protection group OCID.
func New(drpgID string) (*Metrics, error) {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		PrecheckOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsdr_precheck_outcomes_total",
				Help: "Total number of DR plan prechecks by plan type and outcome",
			},
			[]string{"plan_type", "outcome"},
		),

		PrecheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "fsdr_precheck_duration_seconds",
				Help: "DR plan precheck duration in seconds",
				// Prechecks run for minutes to hours
				Buckets: []float64{30, 60, 120, 300, 600, 1200, 1800, 3600, 7200, 14400},
			},
			[]string{"plan_type"},
		),

		ActivePlans: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fsdr_active_plans",
				Help: "Number of active DR plans in the protection group",
			},
		),

		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fsdr_last_run_timestamp_seconds",
				Help: "Unix time the last precheck run finished",
			},
		),

		LastRunSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fsdr_last_run_success",
				Help: "Whether every precheck of the last run passed (1) or not (0)",
			},
		),

		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsdr_notifications_total",
				Help: "Total number of failure notifications by status",
			},
			[]string{"status"},
		),

		APIRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsdr_api_requests_total",
				Help: "Total number of OCI API requests by operation and status",
			},
			[]string{"operation", "status"},
		),

		APIRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsdr_api_request_duration_seconds",
				Help:    "OCI API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	reg := prometheus.WrapRegistererWith(prometheus.Labels{"drpg_id": drpgID}, m.Registry)
	collectorsToRegister := []prometheus.Collector{
		m.PrecheckOutcomes,
		m.PrecheckDuration,
		m.ActivePlans,
		m.LastRunTimestamp,
		m.LastRunSuccess,
		m.Notifications,
		m.APIRequests,
		m.APIRequestDuration,
	}
	for _, c := range collectorsToRegister {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return m, nil
}

// ObservePrecheck records one plan's outcome.
func (m *Metrics) ObservePrecheck(o model.Outcome) {
	planType := string(o.Plan.Type)
	m.PrecheckOutcomes.WithLabelValues(planType, string(o.Status)).Inc()
	m.PrecheckDuration.WithLabelValues(planType).Observe(o.Elapsed.Seconds())
}

// ObserveRun records the run-level gauges from a finished summary.
func (m *Metrics) ObserveRun(s *model.Summary) {
	m.ActivePlans.Set(float64(len(s.Outcomes)))
	m.LastRunTimestamp.Set(float64(s.FinishedAt.Unix()))
	if s.AllSucceeded() {
		m.LastRunSuccess.Set(1)
	} else {
		m.LastRunSuccess.Set(0)
	}
}

// ObserveNotification records a notification attempt.
func (m *Metrics) ObserveNotification(err error) {
	m.Notifications.WithLabelValues(statusLabel(err)).Inc()
}

// ObserveAPICall records one OCI API call.
func (m *Metrics) ObserveAPICall(operation string, elapsed time.Duration, err error) {
	m.APIRequests.WithLabelValues(operation, statusLabel(err)).Inc()
	m.APIRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// WriteTextfile writes the gathered metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
