package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the agent/daemon.
type Metrics struct {
	registry      *prometheus.Registry
	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	StepsTotal    *prometheus.CounterVec
	EditOps       *prometheus.CounterVec
	OracleReqs    *prometheus.CounterVec
	OracleRetries *prometheus.CounterVec
	ActiveSession *prometheus.GaugeVec
	TransportErrs *prometheus.CounterVec
}

// NewMetrics constructs a metrics registry with agent collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codectl_agent_runs_total",
		Help: "Total agent sessions by finish reason",
	}, []string{"finish_reason"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codectl_agent_run_duration_seconds",
		Help:    "Agent session duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"finish_reason"})

	steps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codectl_agent_steps_total",
		Help: "Dispatched tool steps by tool and outcome",
	}, []string{"tool", "outcome"})

	edits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codectl_edit_operations_total",
		Help: "Edit operations by result (applied or rejected)",
	}, []string{"result"})

	oracleReqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codectl_oracle_requests_total",
		Help: "Oracle completion requests by provider and outcome",
	}, []string{"provider", "outcome"})

	oracleRetries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codectl_oracle_retries_total",
		Help: "Oracle request retries by provider",
	}, []string{"provider"})

	active := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "codectl_transport_active_sessions",
		Help: "Active streaming sessions by transport",
	}, []string{"transport"})

	trErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codectl_transport_errors_total",
		Help: "Transport-level errors by transport and reason",
	}, []string{"transport", "reason"})

	reg.MustRegister(runs, durs, steps, edits, oracleReqs, oracleRetries, active, trErrors)

	return &Metrics{
		registry:      reg,
		RunsTotal:     runs,
		RunDuration:   durs,
		StepsTotal:    steps,
		EditOps:       edits,
		OracleReqs:    oracleReqs,
		OracleRetries: oracleRetries,
		ActiveSession: active,
		TransportErrs: trErrors,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun records a completed session.
func (m *Metrics) RecordRun(finishReason string, duration time.Duration) {
	if m == nil {
		return
	}
	if finishReason == "" {
		finishReason = "unknown"
	}
	m.RunsTotal.WithLabelValues(finishReason).Inc()
	m.RunDuration.WithLabelValues(finishReason).Observe(duration.Seconds())
}

// RecordStep records a dispatched tool step.
func (m *Metrics) RecordStep(tool, outcome string) {
	if m == nil {
		return
	}
	if tool == "" {
		tool = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.StepsTotal.WithLabelValues(tool, outcome).Inc()
}

// RecordEditOps records applied and rejected counts from an edit batch.
func (m *Metrics) RecordEditOps(applied, rejected int) {
	if m == nil {
		return
	}
	m.EditOps.WithLabelValues("applied").Add(float64(applied))
	m.EditOps.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordOracleRequest records a completed oracle request.
func (m *Metrics) RecordOracleRequest(provider, outcome string) {
	if m == nil {
		return
	}
	if provider == "" {
		provider = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.OracleReqs.WithLabelValues(provider, outcome).Inc()
}

// RecordOracleRetry records an oracle retry attempt.
func (m *Metrics) RecordOracleRetry(provider string) {
	if m == nil {
		return
	}
	if provider == "" {
		provider = "unknown"
	}
	m.OracleRetries.WithLabelValues(provider).Inc()
}

// IncActiveSessions increments the active session gauge.
func (m *Metrics) IncActiveSessions(transport string) {
	if m == nil {
		return
	}
	m.ActiveSession.WithLabelValues(transport).Inc()
}

// DecActiveSessions decrements the active session gauge.
func (m *Metrics) DecActiveSessions(transport string) {
	if m == nil {
		return
	}
	m.ActiveSession.WithLabelValues(transport).Dec()
}

// RecordTransportError records a transport-level error.
func (m *Metrics) RecordTransportError(transport, reason string) {
	if m == nil {
		return
	}
	if transport == "" {
		transport = "unknown"
	}
	if reason == "" {
		reason = "unknown"
	}
	m.TransportErrs.WithLabelValues(transport, reason).Inc()
}
