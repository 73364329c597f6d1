package metrics

// MultiSink fans out to multiple sinks. Optional recorders are forwarded only
// to the sinks implementing them.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAllocationResult forwards to all sinks, returning the first error.
func (m *MultiSink) RecordAllocationResult(res []AllocationResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordAllocationResult(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun forwards run summaries.
func (m *MultiSink) RecordRun(sum RunSummary) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RunRecorder); ok {
			if err := rec.RecordRun(sum); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordInventoryLevels forwards stock levels.
func (m *MultiSink) RecordInventoryLevels(levels []InventoryLevel) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(InventoryRecorder); ok {
			if err := rec.RecordInventoryLevels(levels); err != nil {
				return err
			}
		}
	}
	return nil
}
