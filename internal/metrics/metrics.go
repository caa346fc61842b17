// Package metrics holds the Prometheus collectors reporting analytics activity.
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "task_analytics"

// Metrics exposes Prometheus collectors for dashboard calculators, report
// generation and bulk mutations. A nil *Metrics is valid and records nothing.
type Metrics struct {
	calculatorDuration *prometheus.HistogramVec
	calculatorFailures *prometheus.CounterVec
	reportsGenerated   *prometheus.CounterVec
	bulkAffected       *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the instance registered with the global Prometheus
// registry. Collectors are created once so repeated service construction
// does not panic on duplicate registration.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNewMetrics constructs Metrics registered with reg. Tests pass a fresh
// prometheus.NewRegistry(). Registration errors other than an identical
// collector already being present panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		calculatorDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dashboard",
				Name:      "calculator_duration_seconds",
				Help:      "Time spent computing each dashboard section.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"calculator", "status"},
		),
		calculatorFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dashboard",
				Name:      "calculator_failures_total",
				Help:      "Dashboard sections that failed and were replaced by an empty value.",
			},
			[]string{"calculator"},
		),
		reportsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reports",
				Name:      "generated_total",
				Help:      "Reports generated by type and format.",
			},
			[]string{"type", "format"},
		),
		bulkAffected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bulk",
				Name:      "tasks_affected_total",
				Help:      "Tasks changed by bulk operations.",
			},
			[]string{"operation"},
		),
	}

	m.calculatorDuration = register(reg, m.calculatorDuration)
	m.calculatorFailures = register(reg, m.calculatorFailures)
	m.reportsGenerated = register(reg, m.reportsGenerated)
	m.bulkAffected = register(reg, m.bulkAffected)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) C {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return collector
}

// ObserveCalculator records how long a dashboard section took.
func (m *Metrics) ObserveCalculator(calculator string, failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.calculatorDuration.WithLabelValues(calculator, status).Observe(duration.Seconds())
}

// IncCalculatorFailure counts a dashboard section that failed.
func (m *Metrics) IncCalculatorFailure(calculator string) {
	if m == nil {
		return
	}
	m.calculatorFailures.WithLabelValues(calculator).Inc()
}

// IncReport counts a generated report.
func (m *Metrics) IncReport(reportType, format string) {
	if m == nil {
		return
	}
	m.reportsGenerated.WithLabelValues(reportType, format).Inc()
}

// AddBulkAffected adds the number of tasks a bulk operation changed.
func (m *Metrics) AddBulkAffected(operation string, affected int64) {
	if m == nil || affected <= 0 {
		return
	}
	m.bulkAffected.WithLabelValues(operation).Add(float64(affected))
}
