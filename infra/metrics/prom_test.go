package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kheireddine-anas/busbot/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.RecordBooking(coremetrics.BookingSample{Outcome: "success", Latency: 20 * time.Millisecond}); err != nil {
		t.Fatalf("record booking: %v", err)
	}
	if err := sink.RecordBooking(coremetrics.BookingSample{Outcome: "failure"}); err != nil {
		t.Fatalf("record booking: %v", err)
	}
	if err := sink.RecordArmedSchedules(3); err != nil {
		t.Fatalf("record armed: %v", err)
	}

	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.attempts.WithLabelValues("success")); got != 1 {
		t.Fatalf("success counter = %v", got)
	}
	if got := testutil.ToFloat64(ps.attempts.WithLabelValues("failure")); got != 1 {
		t.Fatalf("failure counter = %v", got)
	}
	if got := testutil.ToFloat64(ps.armed); got != 3 {
		t.Fatalf("armed gauge = %v", got)
	}
}

func TestPromSinkIdempotentRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
}
