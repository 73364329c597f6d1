package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/supplymate/core/metrics"
	"github.com/kilianp07/supplymate/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket written by InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes allocation events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAllocationResult writes one allocation_event point per recipient.
func (s *InfluxSink) RecordAllocationResult(res []coremetrics.AllocationResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range res {
		p := write.NewPointWithMeasurement("allocation_event").
			AddTag("recipient_id", r.RecipientID).
			AddTag("kind", r.Kind).
			AddTag("served", strconv.FormatBool(r.Served)).
			AddTag("run_id", r.RunID).
			AddTag("component", "allocation_manager").
			AddField("rank", r.Rank).
			AddField("priority", round3(r.Priority)).
			AddField("capacity", r.Capacity).
			AddField("total_value", r.TotalValue).
			AddField("total_weight", r.TotalWeight).
			AddField("units", r.Units).
			AddField("score", round3(r.Score)).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun writes the summary of a run.
func (s *InfluxSink) RecordRun(sum coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("allocation_run").
		AddTag("kind", sum.Kind).
		AddTag("run_id", sum.RunID).
		AddTag("component", "allocation_manager").
		AddField("recipients", sum.Recipients).
		AddField("served", sum.Served).
		AddField("total_weight", sum.TotalWeight).
		AddField("duration_ms", round3(sum.Duration.Seconds()*1000)).
		SetTime(sum.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordInventoryLevels writes the remaining stock of each supply.
func (s *InfluxSink) RecordInventoryLevels(levels []coremetrics.InventoryLevel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, l := range levels {
		p := write.NewPointWithMeasurement("inventory_level").
			AddTag("supply", l.Supply).
			AddTag("run_id", l.RunID).
			AddField("quantity", l.Quantity).
			SetTime(l.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
