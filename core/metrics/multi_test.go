package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordAllocationResult([]AllocationResult) error {
	r.count++
	return nil
}

func (r *recordSink) RecordRun(RunSummary) error {
	r.count++
	return nil
}

type resultOnlySink struct{ count int }

func (r *resultOnlySink) RecordAllocationResult([]AllocationResult) error {
	r.count++
	return nil
}

type failingSink struct{}

func (failingSink) RecordAllocationResult([]AllocationResult) error { return errors.New("down") }

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	s3 := &resultOnlySink{}
	m := NewMultiSink(s1, s2, s3)
	if err := m.RecordAllocationResult(nil); err != nil {
		t.Fatalf("record result: %v", err)
	}
	if err := m.RecordRun(RunSummary{}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := m.RecordInventoryLevels(nil); err != nil {
		t.Fatalf("record levels: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("results not forwarded")
	}
	if s3.count != 1 {
		t.Fatalf("optional recorders must be skipped, got %d", s3.count)
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	after := &recordSink{}
	m := NewMultiSink(failingSink{}, after)
	if err := m.RecordAllocationResult(nil); err == nil {
		t.Fatal("expected error")
	}
	if after.count != 0 {
		t.Fatal("sinks after a failure should not be called")
	}
}

func TestNewMetricsSinkDefaults(t *testing.T) {
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink got %T", s)
	}
}
