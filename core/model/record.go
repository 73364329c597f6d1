package model

import "fmt"

// Line is the quantity of one supply handed to a recipient together with the
// unit figures it was valued at.
type Line struct {
	Supply     string `json:"supply"`
	Quantity   int    `json:"quantity"`
	UnitValue  int    `json:"unit_value"`
	UnitWeight int    `json:"unit_weight"`
}

// Record accumulates what one recipient received during an allocation run.
// Totals are always recomputed from the lines, so removing a line keeps them
// consistent.
type Record struct {
	RecipientID string  `json:"recipient_id"`
	Lines       []Line  `json:"lines"`
	TotalValue  int     `json:"total_value"`
	TotalWeight int     `json:"total_weight"`
	Score       float64 `json:"allocation_score"`
}

// NewRecord returns an empty record for the recipient.
func NewRecord(recipientID string) *Record {
	return &Record{RecipientID: recipientID, Lines: []Line{}}
}

// Add records qty units of a supply. Non-positive quantities are ignored.
func (r *Record) Add(supply string, qty, unitValue, unitWeight int) {
	if qty <= 0 {
		return
	}
	for i := range r.Lines {
		if r.Lines[i].Supply == supply {
			r.Lines[i].Quantity += qty
			r.recompute()
			return
		}
	}
	r.Lines = append(r.Lines, Line{Supply: supply, Quantity: qty, UnitValue: unitValue, UnitWeight: unitWeight})
	r.recompute()
}

// Remove drops the line for supply and returns whether it existed.
func (r *Record) Remove(supply string) bool {
	for i := range r.Lines {
		if r.Lines[i].Supply == supply {
			r.Lines = append(r.Lines[:i], r.Lines[i+1:]...)
			r.recompute()
			return true
		}
	}
	return false
}

func (r *Record) recompute() {
	r.TotalValue, r.TotalWeight = 0, 0
	for _, l := range r.Lines {
		r.TotalValue += l.Quantity * l.UnitValue
		r.TotalWeight += l.Quantity * l.UnitWeight
	}
}

// Quantity returns the allocated quantity of a supply.
func (r *Record) Quantity(supply string) int {
	for _, l := range r.Lines {
		if l.Supply == supply {
			return l.Quantity
		}
	}
	return 0
}

// Quantities returns the allocated quantity per supply name.
func (r *Record) Quantities() map[string]int {
	out := make(map[string]int, len(r.Lines))
	for _, l := range r.Lines {
		out[l.Supply] = l.Quantity
	}
	return out
}

// HasAllocations reports whether the recipient received anything of value.
func (r *Record) HasAllocations() bool {
	return len(r.Lines) > 0 && r.TotalValue > 0
}

// ComputeScore sets Score to value density weighted by the recipient priority.
func (r *Record) ComputeScore(priority float64) float64 {
	if r.TotalWeight > 0 {
		r.Score = float64(r.TotalValue) / float64(r.TotalWeight) * priority
	} else {
		r.Score = 0
	}
	return r.Score
}

// Clear resets the record to empty.
func (r *Record) Clear() {
	r.Lines = []Line{}
	r.TotalValue, r.TotalWeight, r.Score = 0, 0, 0
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Lines = append([]Line{}, r.Lines...)
	return &cp
}

func (r *Record) String() string {
	if !r.HasAllocations() {
		return fmt.Sprintf("Recipient %s: no supplies allocated", r.RecipientID)
	}
	return fmt.Sprintf("Recipient %s: %d lines, value=%d, weight=%d, score=%.2f",
		r.RecipientID, len(r.Lines), r.TotalValue, r.TotalWeight, r.Score)
}
