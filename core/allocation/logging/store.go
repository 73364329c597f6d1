package logging

import (
	"context"
	"slices"
	"time"

	"github.com/kilianp07/supplymate/core/model"
)

// Run kinds written to the log.
const (
	KindAllocate  = "allocate"
	KindRebalance = "rebalance"
)

// LogRecord captures one allocation run and the inventory it left behind.
type LogRecord struct {
	RunID            string         `json:"run_id"`
	Timestamp        time.Time      `json:"timestamp"`
	Kind             string         `json:"kind"`
	BaseCapacity     int            `json:"base_capacity"`
	RecipientsRanked []string       `json:"recipients_ranked"`
	Records          []model.Record `json:"records"`
	InventoryAfter   map[string]int `json:"inventory_after"`
}

// LogQuery defines filters for retrieving records. Zero fields match everything.
type LogQuery struct {
	Start       time.Time
	End         time.Time
	RecipientID string
	Kind        string
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.RecipientID != "" && !slices.Contains(r.RecipientsRanked, q.RecipientID) {
		return false
	}
	return true
}
