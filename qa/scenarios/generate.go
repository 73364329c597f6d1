package scenarios

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/kilianp07/supplymate/core/model"
)

const (
	KindSample     = "sample"
	KindRandom     = "random"
	KindLowStock   = "low-stock"
	KindEmergency  = "emergency"
	KindBalanced   = "balanced"
	KindHighDemand = "high-demand"
)

var generators = map[string]func(*Generator) *Scenario{
	KindSample:     (*Generator).Sample,
	KindRandom:     func(g *Generator) *Scenario { return g.Random(10) },
	KindLowStock:   (*Generator).LowStock,
	KindEmergency:  (*Generator).Emergency,
	KindBalanced:   (*Generator).Balanced,
	KindHighDemand: (*Generator).HighDemand,
}

// Kinds lists the scenario kinds Generate accepts.
func Kinds() []string {
	out := make([]string, 0, len(generators))
	for k := range generators {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Generator builds synthetic scenarios. A fixed seed yields identical output.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns the scenario of the given kind.
func (g *Generator) Generate(kind string) (*Scenario, error) {
	f, ok := generators[kind]
	if !ok {
		return nil, fmt.Errorf("unknown scenario kind %q", kind)
	}
	return f(g), nil
}

// SampleRecipients returns ten hand-picked households covering the range
// of size, distance and urgency combinations.
func SampleRecipients() []RecipientDef {
	return []RecipientDef{
		{ID: "FAM001", Size: 5, Distance: 2.5, Urgency: 9},
		{ID: "FAM002", Size: 3, Distance: 8.2, Urgency: 7},
		{ID: "FAM003", Size: 2, Distance: 1.0, Urgency: 10},
		{ID: "FAM004", Size: 7, Distance: 15.5, Urgency: 5},
		{ID: "FAM005", Size: 1, Distance: 3.8, Urgency: 8},
		{ID: "FAM006", Size: 4, Distance: 6.1, Urgency: 6},
		{ID: "FAM007", Size: 2, Distance: 12.0, Urgency: 9},
		{ID: "FAM008", Size: 6, Distance: 4.2, Urgency: 4},
		{ID: "FAM009", Size: 3, Distance: 9.8, Urgency: 7},
		{ID: "FAM010", Size: 1, Distance: 0.5, Urgency: 10},
	}
}

// LowStockSupplies is the scarce kit used by scarcity scenarios.
func LowStockSupplies() []SupplyDef {
	return []SupplyDef{
		{Name: "Food Ration", UnitWeight: 2, UnitValue: 8, Quantity: 15, Unit: "packs"},
		{Name: "Water Bottle", UnitWeight: 1, UnitValue: 10, Quantity: 25, Unit: "bottles"},
		{Name: "Medicine Kit", UnitWeight: 1, UnitValue: 15, Quantity: 8, Unit: "kits"},
		{Name: "Blanket", UnitWeight: 3, UnitValue: 6, Quantity: 12, Unit: "pieces"},
		{Name: "First Aid", UnitWeight: 1, UnitValue: 12, Quantity: 5, Unit: "kits"},
	}
}

func (g *Generator) Sample() *Scenario {
	return &Scenario{
		Name:              "Sample Scenario",
		Description:       "Ten sample households against the default inventory",
		InventoryCapacity: 1000,
		Recipients:        SampleRecipients(),
	}
}

// RandomRecipients returns n households of size 1-8 within 20km with
// urgency 1-10, identified RND001 onwards.
func (g *Generator) RandomRecipients(n int) []RecipientDef {
	out := make([]RecipientDef, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, RecipientDef{
			ID:       fmt.Sprintf("RND%03d", i),
			Size:     g.rng.Intn(8) + 1,
			Distance: g.distance(20),
			Urgency:  g.rng.Intn(10) + 1,
		})
	}
	return out
}

// distance draws a distance in (0, limit] rounded to one decimal.
func (g *Generator) distance(limit float64) float64 {
	d := math.Round(g.rng.Float64()*limit*10) / 10
	if d < 0.1 {
		d = 0.1
	}
	return d
}

func (g *Generator) Random(n int) *Scenario {
	return &Scenario{
		Name:              "Random Scenario",
		Description:       fmt.Sprintf("%d random households against the default inventory", n),
		InventoryCapacity: 1000,
		Recipients:        g.RandomRecipients(n),
	}
}

func (g *Generator) LowStock() *Scenario {
	return &Scenario{
		Name:              "Low Stock Scenario",
		Description:       "Sample households competing for a scarce inventory",
		InventoryCapacity: 200,
		Supplies:          LowStockSupplies(),
		Recipients:        SampleRecipients(),
	}
}

func (g *Generator) HighDemand() *Scenario {
	return &Scenario{
		Name:              "High Demand Scenario",
		Description:       "25 households competing for limited supplies",
		InventoryCapacity: 200,
		Supplies:          LowStockSupplies(),
		Recipients:        g.RandomRecipients(25),
	}
}

// Emergency returns ten households of size 2-7 within 10km, all with
// urgency 8-10.
func (g *Generator) Emergency() *Scenario {
	recipients := make([]RecipientDef, 0, 10)
	for i := 1; i <= 10; i++ {
		recipients = append(recipients, RecipientDef{
			ID:       fmt.Sprintf("EMG%03d", i),
			Size:     g.rng.Intn(6) + 2,
			Distance: g.distance(10),
			Urgency:  g.rng.Intn(3) + 8,
		})
	}
	return &Scenario{
		Name:              "Emergency Scenario",
		Description:       "High urgency households requiring immediate assistance",
		InventoryCapacity: 800,
		Recipients:        recipients,
	}
}

func (g *Generator) Balanced() *Scenario {
	return &Scenario{
		Name:              "Balanced Scenario",
		Description:       "Standard relief scenario with varied household needs",
		InventoryCapacity: 1000,
		Supplies:          DefaultSupplyDefs(),
		Recipients:        SampleRecipients(),
	}
}

// DefaultSupplyDefs mirrors model.DefaultSupplies for scenario files that
// want the kit spelled out.
func DefaultSupplyDefs() []SupplyDef {
	sup := model.DefaultSupplies()
	out := make([]SupplyDef, len(sup))
	for i, s := range sup {
		out[i] = SupplyDef{Name: s.Name, UnitWeight: s.UnitWeight, UnitValue: s.UnitValue, Quantity: s.Quantity, Unit: s.Unit}
	}
	return out
}
