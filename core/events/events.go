package events

import "time"

// Event is implemented by every payload published on the allocation bus.
type Event interface {
	EventName() string
}

// RunEvent is published once per completed run with the inventory left behind.
type RunEvent struct {
	RunID      string
	Kind       string
	Recipients int
	Served     int
	Remaining  map[string]int
	Weight     int
	Duration   time.Duration
	Time       time.Time
}

func (RunEvent) EventName() string { return "run" }

// RecipientEvent is published for each ranked recipient, in rank order.
type RecipientEvent struct {
	RunID       string
	RecipientID string
	Rank        int
	Capacity    int
	Served      bool
	Score       float64
}

func (RecipientEvent) EventName() string { return "recipient" }

// RebalanceEvent reports the quantities put back into the inventory before a
// rebalance reran the allocation.
type RebalanceEvent struct {
	RunID    string
	Restored map[string]int
}

func (RebalanceEvent) EventName() string { return "rebalance" }
