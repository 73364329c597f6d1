package metrics

import "time"

// AllocationResult is the per-recipient outcome of a run.
type AllocationResult struct {
	RunID       string
	Kind        string
	RecipientID string
	Rank        int
	Priority    float64
	Capacity    int
	TotalValue  int
	TotalWeight int
	Units       int
	Score       float64
	Served      bool
	Time        time.Time
}

// MetricsSink records allocation results for observability purposes.
type MetricsSink interface {
	RecordAllocationResult(results []AllocationResult) error
}

// RunSummary aggregates one run.
type RunSummary struct {
	RunID       string
	Kind        string
	Recipients  int
	Served      int
	TotalWeight int
	Duration    time.Duration
	Time        time.Time
}

// RunRecorder records run summaries.
type RunRecorder interface {
	RecordRun(s RunSummary) error
}

// InventoryLevel is the remaining stock of one supply after a run.
type InventoryLevel struct {
	RunID    string
	Supply   string
	Quantity int
	Time     time.Time
}

// InventoryRecorder records remaining stock levels.
type InventoryRecorder interface {
	RecordInventoryLevels(levels []InventoryLevel) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAllocationResult([]AllocationResult) error { return nil }
func (NopSink) RecordRun(RunSummary) error                      { return nil }
func (NopSink) RecordInventoryLevels([]InventoryLevel) error    { return nil }
