package regress

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics of a run.
type Metrics struct {
	Cases *prometheus.CounterVec
	MaxError *prometheus.GaugeVec
	Epsilon *prometheus.GaugeVec
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	cases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "athcheck_cases_total",
		Help: "Number of cases run, by verdict",
	}, []string{"result"})

	maxError := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "athcheck_max_relative_error",
		Help: "Largest relative error of each candidate file",
	}, []string{"case", "file"})

	epsilon := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "athcheck_convergence_epsilon",
		Help: "Normalized error of each run of a convergence case",
	}, []string{"case", "run"})

	reg.MustRegister(cases, maxError, epsilon)

	return &Metrics{ Cases: cases, MaxError: maxError, Epsilon: epsilon }
}

// Observe records a result.
func (m *Metrics) Observe(r *Result) {
	switch {
	case r.Err != nil: m.Cases.WithLabelValues("error").Inc()
	case r.Pass: m.Cases.WithLabelValues("pass").Inc()
	default: m.Cases.WithLabelValues("fail").Inc()
	}

	for _, cmp := range r.Comparisons {
		m.MaxError.WithLabelValues(r.Case, cmp.File).Set(cmp.MaxError)
	}
	if r.Convergence != nil {
		m.Epsilon.WithLabelValues(r.Case, "low").Set(r.Convergence.Epsilon[0])
		m.Epsilon.WithLabelValues(r.Case, "high").Set(r.Convergence.Epsilon[1])
	}
}
