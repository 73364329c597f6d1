package status

import (
	"sort"
	"sync"
	"time"
)

// Status values tracked per recipient.
const (
	StatusWaiting  = "waiting"
	StatusServed   = "served"
	StatusUnserved = "unserved"
	StatusInactive = "inactive"
)

// LastAllocation summarizes what a recipient got in its most recent run.
type LastAllocation struct {
	RunID       string         `json:"run_id"`
	Kind        string         `json:"kind"`
	Rank        int            `json:"rank"`
	Capacity    int            `json:"capacity"`
	Quantities  map[string]int `json:"quantities"`
	TotalValue  int            `json:"total_value"`
	TotalWeight int            `json:"total_weight"`
	Score       float64        `json:"allocation_score"`
	Timestamp   time.Time      `json:"timestamp"`
}

// Status captures the current known state of a recipient.
type Status struct {
	RecipientID    string         `json:"recipient_id"`
	Priority       float64        `json:"priority_score"`
	Urgency        int            `json:"urgency"`
	Active         bool           `json:"active"`
	CurrentStatus  string         `json:"current_status"`
	LastAllocation LastAllocation `json:"last_allocation"`
}

type Filter struct {
	Status     string
	ActiveOnly bool
}

type Store interface {
	Set(Status)
	Get(id string) (Status, bool)
	Delete(id string)
	List(Filter) []Status
	RecordAllocation(id string, a LastAllocation)
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Status{}}
}

func (s *MemoryStore) Set(st Status) {
	s.mu.Lock()
	s.data[st.RecipientID] = st
	s.mu.Unlock()
}

func (s *MemoryStore) Get(id string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[id]
	return st, ok
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
}

// RecordAllocation stores a as the last allocation of id and marks the
// recipient served or unserved depending on what it received.
func (s *MemoryStore) RecordAllocation(id string, a LastAllocation) {
	s.mu.Lock()
	st := s.data[id]
	if st.RecipientID == "" {
		st.RecipientID = id
		st.Active = true
	}
	st.LastAllocation = a
	if a.TotalValue > 0 {
		st.CurrentStatus = StatusServed
	} else {
		st.CurrentStatus = StatusUnserved
	}
	s.data[id] = st
	s.mu.Unlock()
}

func (s *MemoryStore) List(f Filter) []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		if f.Status != "" && st.CurrentStatus != f.Status {
			continue
		}
		if f.ActiveOnly && !st.Active {
			continue
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].RecipientID < res[j].RecipientID })
	return res
}
