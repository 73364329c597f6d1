package recipients

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kilianp07/supplymate/core/status"
)

func TestStatusHandler_Basic(t *testing.T) {
	store := status.NewMemoryStore()
	store.Set(status.Status{RecipientID: "FAM001", Active: true, CurrentStatus: status.StatusWaiting})
	h := NewStatusHandler(store)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/recipients/status", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []status.Status
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].RecipientID != "FAM001" {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestStatusHandler_Filter(t *testing.T) {
	store := status.NewMemoryStore()
	store.Set(status.Status{RecipientID: "FAM001", Active: true})
	store.Set(status.Status{RecipientID: "FAM002", Active: false, CurrentStatus: status.StatusInactive})
	store.RecordAllocation("FAM003", status.LastAllocation{RunID: "r", TotalValue: 10})
	h := NewStatusHandler(store)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/recipients/status?status=served", nil))
	var out []status.Status
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].RecipientID != "FAM003" {
		t.Fatalf("unexpected filter result %#v", out)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/recipients/status?active=true", nil))
	out = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 active recipients, got %#v", out)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/recipients/status?active=maybe", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}
