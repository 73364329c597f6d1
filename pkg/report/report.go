package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/supplymate/core/model"
)

const barWidth = 50

// SupplyUsage compares the stock of one supply before and after a run.
type SupplyUsage struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Initial   int     `json:"initial"`
	Remaining int     `json:"remaining"`
	Used      int     `json:"used"`
	UsagePct  float64 `json:"usage_pct"`
	Available bool    `json:"available"`
}

// RecipientLine is one recipient with its allocation, ordered by score.
type RecipientLine struct {
	ID       string         `json:"id"`
	Size     int            `json:"size"`
	Distance float64        `json:"distance"`
	Urgency  int            `json:"urgency"`
	Priority float64        `json:"priority"`
	Record   model.Record   `json:"record"`
	Supplies map[string]int `json:"supplies"`
}

// Summary aggregates the outcome of an allocation run.
type Summary struct {
	Generated        time.Time       `json:"generated"`
	TotalRecipients  int             `json:"total_recipients"`
	ActiveRecipients int             `json:"active_recipients"`
	Served           int             `json:"served"`
	Unserved         int             `json:"unserved"`
	TotalValue       int             `json:"total_value"`
	TotalWeight      int             `json:"total_weight"`
	AvgValuePerServe float64         `json:"avg_value_per_served"`
	ScoreMean        float64         `json:"score_mean"`
	ScoreStdDev      float64         `json:"score_stddev"`
	CurrentWeight    int             `json:"current_weight"`
	MaxCapacity      int             `json:"max_capacity"`
	CapacityUsagePct float64         `json:"capacity_usage_pct"`
	Recipients       []RecipientLine `json:"recipients"`
	Supplies         []SupplyUsage   `json:"supplies"`
}

// ServedPct is the share of active recipients that received supplies.
func (s Summary) ServedPct() float64 {
	if s.ActiveRecipients == 0 {
		return 0
	}
	return float64(s.Served) / float64(s.ActiveRecipients) * 100
}

// Build summarizes records produced for recipients against the inventory
// snapshot taken after the run. initial holds the per-supply quantities before the
// run; supplies missing from it are reported with their remaining stock as
// the initial figure.
func Build(recipients []*model.Recipient, records []*model.Record, inv model.Snapshot, initial map[string]int) Summary {
	s := Summary{Generated: time.Now(), TotalRecipients: len(recipients)}
	byID := make(map[string]*model.Recipient, len(recipients))
	for _, r := range recipients {
		if r == nil {
			continue
		}
		byID[r.ID()] = r
		if r.Active() {
			s.ActiveRecipients++
		}
	}

	values := make([]float64, 0, len(records))
	var scores []float64
	for _, rec := range records {
		if rec == nil {
			continue
		}
		values = append(values, float64(rec.TotalValue))
		s.TotalWeight += rec.TotalWeight
		if rec.HasAllocations() {
			s.Served++
			scores = append(scores, rec.Score)
		}
		if r, ok := byID[rec.RecipientID]; ok {
			s.Recipients = append(s.Recipients, RecipientLine{
				ID:       r.ID(),
				Size:     r.Size(),
				Distance: r.Distance(),
				Urgency:  r.Urgency(),
				Priority: r.PriorityScore(),
				Record:   *rec.Clone(),
				Supplies: rec.Quantities(),
			})
		}
	}
	s.TotalValue = int(floats.Sum(values))
	s.Unserved = s.ActiveRecipients - s.Served
	if s.Unserved < 0 {
		s.Unserved = 0
	}
	if s.Served > 0 {
		s.AvgValuePerServe = float64(s.TotalValue) / float64(s.Served)
		s.ScoreMean = stat.Mean(scores, nil)
	}
	if len(scores) > 1 {
		s.ScoreStdDev = stat.StdDev(scores, nil)
	}
	sort.SliceStable(s.Recipients, func(i, j int) bool {
		return s.Recipients[i].Record.Score > s.Recipients[j].Record.Score
	})

	s.CurrentWeight = inv.CurrentWeight
	s.MaxCapacity = inv.MaxCapacity
	if inv.MaxCapacity > 0 {
		s.CapacityUsagePct = float64(inv.CurrentWeight) / float64(inv.MaxCapacity) * 100
	}
	for _, sup := range inv.Supplies {
		start, ok := initial[sup.Name]
		if !ok {
			start = sup.Quantity
		}
		u := SupplyUsage{
			Name:      sup.Name,
			Unit:      sup.Unit,
			Initial:   start,
			Remaining: sup.Quantity,
			Used:      start - sup.Quantity,
			Available: sup.Available(),
		}
		if start > 0 {
			u.UsagePct = float64(u.Used) / float64(start) * 100
		}
		s.Supplies = append(s.Supplies, u)
	}
	return s
}

// Quick returns the one line summary printed after a run.
func (s Summary) Quick() string {
	return fmt.Sprintf("Allocation complete: %d/%d recipients served, total value distributed: %d",
		s.Served, s.TotalRecipients, s.TotalValue)
}

// Render writes the full text report to w.
func (s Summary) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString("=====================================\n")
	b.WriteString("      RELIEF ALLOCATION REPORT\n")
	b.WriteString("=====================================\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", s.Generated.Format("2006-01-02 15:04:05"))

	b.WriteString("=== ALLOCATION SUMMARY ===\n")
	fmt.Fprintf(&b, "Total Recipients: %d\n", s.TotalRecipients)
	fmt.Fprintf(&b, "Active Recipients: %d\n", s.ActiveRecipients)
	fmt.Fprintf(&b, "Recipients Served: %d (%.1f%%)\n", s.Served, s.ServedPct())
	fmt.Fprintf(&b, "Recipients Unserved: %d\n", s.Unserved)
	fmt.Fprintf(&b, "Total Value Distributed: %d\n", s.TotalValue)
	fmt.Fprintf(&b, "Total Weight Distributed: %d\n", s.TotalWeight)
	fmt.Fprintf(&b, "Average Value per Recipient: %.1f\n", s.AvgValuePerServe)
	fmt.Fprintf(&b, "Score Mean/StdDev: %.2f / %.2f\n\n", s.ScoreMean, s.ScoreStdDev)

	b.WriteString("=== RECIPIENT ALLOCATIONS ===\n")
	for _, r := range s.Recipients {
		fmt.Fprintf(&b, "Recipient %s (Size: %d, Distance: %.1fkm, Urgency: %d, Priority: %.2f)\n",
			r.ID, r.Size, r.Distance, r.Urgency, r.Priority)
		if !r.Record.HasAllocations() {
			b.WriteString("  - no supplies allocated\n\n")
			continue
		}
		for _, l := range r.Record.Lines {
			fmt.Fprintf(&b, "  + %s: %d units\n", l.Supply, l.Quantity)
		}
		fmt.Fprintf(&b, "  Total Value: %d, Weight: %d, Score: %.2f\n\n",
			r.Record.TotalValue, r.Record.TotalWeight, r.Record.Score)
	}

	b.WriteString("=== REMAINING INVENTORY ===\n")
	byName := append([]SupplyUsage(nil), s.Supplies...)
	sort.Slice(byName, func(i, j int) bool { return byName[i].Name < byName[j].Name })
	for _, u := range byName {
		state := "Available"
		if !u.Available {
			state = "OUT OF STOCK"
		}
		fmt.Fprintf(&b, "%-15s: %3d %-8s [%s]\n", u.Name, u.Remaining, u.Unit, state)
	}
	fmt.Fprintf(&b, "\nCapacity Usage: %d/%d (%.1f%%)\n\n", s.CurrentWeight, s.MaxCapacity, s.CapacityUsagePct)

	b.WriteString("=== SUPPLY USAGE CHART ===\n")
	for _, u := range s.Supplies {
		fmt.Fprintf(&b, "%-15s %s %.1f%% (%d/%d)\n", u.Name, bar(u.UsagePct), u.UsagePct, u.Used, u.Initial)
	}
	b.WriteString("\nLegend: # = used, . = remaining\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func bar(pct float64) string {
	n := int(pct / 100 * barWidth)
	if n < 0 {
		n = 0
	}
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("#", n) + strings.Repeat(".", barWidth-n)
}
