// Package events defines the allocation events emitted on the event bus.
//
// Available event types:
//   - RunEvent: an allocation or rebalance run completed
//   - RecipientEvent: one recipient was processed during a run
//   - RebalanceEvent: previously allocated stock was restored before a rerun
package events
