// Package metrics provides the Prometheus implementation of the core
// metrics sink.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kheireddine-anas/busbot/core/metrics"
)

// PromSink records booking activity in Prometheus metrics.
type PromSink struct {
	attempts *prometheus.CounterVec
	latency  prometheus.Histogram
	armed    prometheus.Gauge
}

// NewPromSink registers booking metrics on the default Prometheus
// registerer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_attempts_total",
		Help: "Total number of booking attempts by outcome",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "booking_latency_seconds",
		Help:    "Time spent in the booking call",
		Buckets: prometheus.DefBuckets,
	})
	armed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "armed_schedules",
		Help: "Number of currently armed booking schedules",
	})

	if err := reg.Register(attempts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			attempts = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(armed); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			armed = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{attempts: attempts, latency: latency, armed: armed}, nil
}

// RecordBooking increments the attempt counter and observes the latency.
func (s *PromSink) RecordBooking(sample coremetrics.BookingSample) error {
	s.attempts.WithLabelValues(sample.Outcome).Inc()
	s.latency.Observe(sample.Latency.Seconds())
	return nil
}

// RecordArmedSchedules sets the armed schedules gauge.
func (s *PromSink) RecordArmedSchedules(count int) error {
	s.armed.Set(float64(count))
	return nil
}
