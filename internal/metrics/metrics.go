package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder records savings evaluations in Prometheus metrics.
type PromRecorder struct {
	evaluations *prometheus.CounterVec
	invalid     prometheus.Counter
	savings     *prometheus.HistogramVec
	duration    prometheus.Histogram
}

// NewPromRecorder registers metrics on the default Prometheus registerer.
func NewPromRecorder() (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics that
// are already registered are reused.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "battery_savings_evaluations_total",
		Help: "Total number of savings evaluations",
	}, []string{"strategy"})
	invalid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "battery_savings_invalid_strategy_total",
		Help: "Evaluations rejected because of an unknown strategy",
	})
	savings := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "battery_savings_eur",
		Help:    "Daily savings against the no-battery baseline",
		Buckets: []float64{-2, -1, -0.5, 0, 0.25, 0.5, 1, 2, 4, 8},
	}, []string{"strategy"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "battery_savings_evaluation_seconds",
		Help:    "Time spent evaluating baseline plus strategy",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
	})

	var err error
	if evaluations, err = register(reg, evaluations); err != nil {
		return nil, err
	}
	if invalid, err = register(reg, invalid); err != nil {
		return nil, err
	}
	if savings, err = register(reg, savings); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &PromRecorder{evaluations: evaluations, invalid: invalid, savings: savings, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordEvaluation counts a completed evaluation and observes its savings and duration.
func (r *PromRecorder) RecordEvaluation(strategy string, savingsEUR float64, elapsed time.Duration) {
	r.evaluations.WithLabelValues(strategy).Inc()
	r.savings.WithLabelValues(strategy).Observe(savingsEUR)
	r.duration.Observe(elapsed.Seconds())
}

// RecordInvalidStrategy counts an evaluation rejected for its strategy name.
func (r *PromRecorder) RecordInvalidStrategy(string) {
	r.invalid.Inc()
}
