package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/supplymate/core/metrics"
)

type bodyRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (b *bodyRecorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.bodies = append(b.bodies, strings.TrimSpace(string(data)))
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInfluxSink_RecordAllocationResult(t *testing.T) {
	rec := &bodyRecorder{}
	srv := rec.server(t)

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Now()
	res := coremetrics.AllocationResult{
		RunID:       "run-1",
		Kind:        "allocate",
		RecipientID: "FAM001",
		Rank:        1,
		Priority:    5.28,
		Capacity:    30,
		TotalValue:  101,
		TotalWeight: 14,
		Units:       10,
		Score:       38.0914,
		Served:      true,
		Time:        now,
	}
	if err := sink.RecordAllocationResult([]coremetrics.AllocationResult{res}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("allocation_event").
		AddTag("recipient_id", "FAM001").
		AddTag("kind", "allocate").
		AddTag("served", "true").
		AddTag("run_id", "run-1").
		AddTag("component", "allocation_manager").
		AddField("rank", 1).
		AddField("priority", 5.28).
		AddField("capacity", 30).
		AddField("total_value", 101).
		AddField("total_weight", 14).
		AddField("units", 10).
		AddField("score", 38.091).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(rec.bodies) != 1 || rec.bodies[0] != expected {
		t.Errorf("unexpected bodies: %v", rec.bodies)
	}
}

func TestInfluxSink_RecordRunAndLevels(t *testing.T) {
	rec := &bodyRecorder{}
	srv := rec.server(t)

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Now()
	if err := sink.RecordRun(coremetrics.RunSummary{RunID: "r", Kind: "rebalance", Recipients: 3, Served: 2, TotalWeight: 40, Duration: 2 * time.Millisecond, Time: now}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	levels := []coremetrics.InventoryLevel{
		{RunID: "r", Supply: "Blanket", Quantity: 70, Time: now},
		{RunID: "r", Supply: "Water Bottle", Quantity: 120, Time: now},
	}
	if err := sink.RecordInventoryLevels(levels); err != nil {
		t.Fatalf("record levels: %v", err)
	}
	run := write.NewPointWithMeasurement("allocation_run").
		AddTag("kind", "rebalance").
		AddTag("run_id", "r").
		AddTag("component", "allocation_manager").
		AddField("recipients", 3).
		AddField("served", 2).
		AddField("total_weight", 40).
		AddField("duration_ms", 2.0).
		SetTime(now)
	blanket := write.NewPointWithMeasurement("inventory_level").
		AddTag("supply", "Blanket").
		AddTag("run_id", "r").
		AddField("quantity", 70).
		SetTime(now)
	want := []string{
		strings.TrimSpace(write.PointToLineProtocol(run, time.Nanosecond)),
		strings.TrimSpace(write.PointToLineProtocol(blanket, time.Nanosecond)),
	}
	if len(rec.bodies) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(rec.bodies))
	}
	for i, w := range want {
		if rec.bodies[i] != w {
			t.Errorf("body %d: got %s want %s", i, rec.bodies[i], w)
		}
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{
		URL:    srv.URL + "/api/v2/write",
		Token:  "tok",
		Org:    "org",
		Bucket: "bucket",
	})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
