package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reoring/cmdskema"
)

// Outcome label values of Metrics.Interactions.
const (
	OutcomeOK           = "ok"
	OutcomeParseError   = "parse_error"
	OutcomeNoHandler    = "no_handler"
	OutcomeHandlerError = "handler_error"
)

// Metrics holds the Prometheus collectors updated by Dispatch.
type Metrics struct {
	Interactions    *prometheus.CounterVec
	ParseErrors     *prometheus.CounterVec
	HandlerDuration *prometheus.HistogramVec
}

// NewMetrics creates the router collectors on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates the router collectors on reg.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Interactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cmdskema",
				Name:      "interactions_total",
				Help:      "Total number of interactions dispatched",
			},
			[]string{"command", "outcome"},
		),
		ParseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cmdskema",
				Name:      "parse_errors_total",
				Help:      "Total number of interaction payloads rejected by the parser",
			},
			[]string{"code"},
		),
		HandlerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cmdskema",
				Name:      "handler_duration_seconds",
				Help:      "Handler duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"command"},
		),
	}
}

// Count increments the interaction counter. A nil Metrics is a no-op.
func (m *Metrics) Count(command, outcome string) {
	if m == nil {
		return
	}
	m.Interactions.WithLabelValues(command, outcome).Inc()
}

// ObserveParseError counts a payload the parser rejected and returns the
// error code label ("unknown" for errors that are not parse errors).
func (m *Metrics) ObserveParseError(set *cmdskema.Set, name string, err error) string {
	code := "unknown"
	if pe, ok := cmdskema.AsParseError(err); ok {
		code = string(pe.Code)
	}
	if m == nil {
		return code
	}
	m.Interactions.WithLabelValues(CommandLabel(set, name), OutcomeParseError).Inc()
	m.ParseErrors.WithLabelValues(code).Inc()
	return code
}

// CommandLabel keeps the command label bounded to declared names.
func CommandLabel(set *cmdskema.Set, name string) string {
	if _, ok := set.Lookup(name); ok {
		return name
	}
	return "unknown"
}
