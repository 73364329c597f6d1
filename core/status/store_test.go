package status

import "testing"

func TestMemoryStore_FilterStatus(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{RecipientID: "r1", Active: true, CurrentStatus: StatusWaiting})
	s.RecordAllocation("r2", LastAllocation{RunID: "run", TotalValue: 40})
	out := s.List(Filter{Status: StatusServed})
	if len(out) != 1 || out[0].RecipientID != "r2" {
		t.Fatalf("filter failed: %#v", out)
	}
}

func TestMemoryStore_FilterActive(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{RecipientID: "r1", Active: true})
	s.Set(Status{RecipientID: "r2", Active: false, CurrentStatus: StatusInactive})
	out := s.List(Filter{ActiveOnly: true})
	if len(out) != 1 || out[0].RecipientID != "r1" {
		t.Fatalf("active filter failed: %#v", out)
	}
}

func TestMemoryStore_RecordAllocationUnserved(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{RecipientID: "r1", Active: true, Priority: 3.2})
	s.RecordAllocation("r1", LastAllocation{RunID: "run"})
	out := s.List(Filter{})
	if out[0].CurrentStatus != StatusUnserved || out[0].Priority != 3.2 {
		t.Fatalf("status not updated: %#v", out[0])
	}
}

func TestMemoryStore_DeleteAndOrder(t *testing.T) {
	s := NewMemoryStore()
	for _, id := range []string{"c", "a", "b"} {
		s.Set(Status{RecipientID: id})
	}
	s.Delete("b")
	out := s.List(Filter{})
	if len(out) != 2 || out[0].RecipientID != "a" || out[1].RecipientID != "c" {
		t.Fatalf("unexpected list %#v", out)
	}
}

func TestMemoryStore_Get(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Get("r1"); ok {
		t.Fatalf("unexpected status")
	}
	s.RecordAllocation("r1", LastAllocation{RunID: "run", TotalValue: 1})
	st, ok := s.Get("r1")
	if !ok || st.LastAllocation.RunID != "run" || !st.Active {
		t.Fatalf("unexpected status %#v", st)
	}
}
