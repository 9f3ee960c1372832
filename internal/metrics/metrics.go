// Package metrics counts what one reconciliation session did and exports
// the counters as a Prometheus textfile for unattended builds.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "extdeps"

// Session holds the collectors of one build session.
// A nil *Session is valid and records nothing.
type Session struct {
	reg *prometheus.Registry

	manifests   *prometheus.CounterVec
	resolutions prometheus.Counter
	templates   *prometheus.CounterVec
	active      prometheus.Gauge
	failures    *prometheus.CounterVec
}

// New creates a Session with its own registry.
func New() *Session {
	s := &Session{
		reg: prometheus.NewRegistry(),
		manifests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manifests_written_total",
			Help:      "Android dependency manifests written to the staging directory.",
		}, []string{"module"}),
		resolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "External dependency resolution triggers.",
		}),
		templates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_transitions_total",
			Help:      "iOS dependency template activations and deactivations.",
		}, []string{"template", "state"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_templates",
			Help:      "iOS dependency templates active after the last reconciliation.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Reconciliation failures by error kind.",
		}, []string{"kind"}),
	}
	s.reg.MustRegister(s.manifests, s.resolutions, s.templates, s.active, s.failures)
	return s
}

// ManifestWritten records a staged manifest of module.
func (s *Session) ManifestWritten(module string) {
	if s == nil {
		return
	}
	s.manifests.WithLabelValues(module).Inc()
}

// Resolved records one resolution trigger.
func (s *Session) Resolved() {
	if s == nil {
		return
	}
	s.resolutions.Inc()
}

// TemplateToggled records an activation (enabled) or deactivation.
func (s *Session) TemplateToggled(template string, enabled bool) {
	if s == nil {
		return
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	s.templates.WithLabelValues(template, state).Inc()
}

// ActiveTemplates sets the size of the active template set.
func (s *Session) ActiveTemplates(n int) {
	if s == nil {
		return
	}
	s.active.Set(float64(n))
}

// Failed records a failure of kind.
func (s *Session) Failed(kind string) {
	if s == nil {
		return
	}
	s.failures.WithLabelValues(kind).Inc()
}

// WriteFile writes the counters in the text exposition format to path,
// atomically, for a node exporter textfile collector.
func (s *Session) WriteFile(path string) error {
	if s == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, s.reg)
}
