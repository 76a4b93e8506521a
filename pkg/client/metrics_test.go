package client

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("first NewMetrics: %v", err)
	}
	b, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("second NewMetrics: %v", err)
	}

	a.observeCall("res.partner", "read", "ok", 10*time.Millisecond)
	b.observeCall("res.partner", "read", "ok", 10*time.Millisecond)
	if got := testutil.ToFloat64(a.calls.WithLabelValues("res.partner", "read", "ok")); got != 2 {
		t.Fatalf("calls_total = %v, want 2 (shared collector)", got)
	}
	if n := testutil.CollectAndCount(a.duration); n != 1 {
		t.Fatalf("expected one duration series, got %d", n)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.observeCall("m", "x", "ok", time.Second)
	m.observeRetry("m", "x")
	m.observeReconnect()
	m.observeCache(true)
}
