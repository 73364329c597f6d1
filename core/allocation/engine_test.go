package allocation

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/supplymate/core/model"
)

func waterOnly(qty int) *model.Inventory {
	inv := model.NewInventory(1000)
	inv.AddSupply(model.NewSupply("water", 1, 10, qty, "bottles"))
	return inv
}

func TestEngine_UrgentWaterScenario(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	a := model.NewRecipient("A", 4, 2, 9)
	inv := waterOnly(150)

	assert.Equal(t, 30, e.Capacity(a))

	recs := e.Allocate([]*model.Recipient{a}, inv)
	require.Len(t, recs, 1)
	assert.Equal(t, "A", recs[0].RecipientID)
	assert.Equal(t, 7, recs[0].Quantity("water"))
	assert.Equal(t, 70, recs[0].TotalValue)
	assert.Equal(t, 7, recs[0].TotalWeight)
	assert.InDelta(t, 10*a.PriorityScore(), recs[0].Score, 1e-9)

	s, ok := inv.Supply("water")
	require.True(t, ok)
	assert.Equal(t, 143, s.Quantity)

	plans := e.LastPlans()
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Steps, 2)
	assert.Equal(t, Step{Pass: PassUrgent, Supply: "water", Category: model.CategoryWater, Target: 3, Units: 3, Remaining: 27}, plans[0].Steps[0])
	assert.Equal(t, Step{Pass: PassGeneral, Supply: "water", Category: model.CategoryWater, Target: 4, Units: 4, Remaining: 23}, plans[0].Steps[1])
}

func TestEngine_GeneralPassDefaultInventory(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	r := model.NewRecipient("R", 4, 1, 5)
	inv := model.NewDefaultInventory(1000)

	assert.Equal(t, 29, e.Capacity(r))
	recs := e.Allocate([]*model.Recipient{r}, inv)
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, map[string]int{
		"Medicine Kit": 1,
		"First Aid":    2,
		"Water Bottle": 4,
		"Food Ration":  2,
		"Blanket":      1,
	}, rec.Quantities())
	assert.Equal(t, 101, rec.TotalValue)
	assert.Equal(t, 14, rec.TotalWeight)

	order := make([]string, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		order = append(order, l.Supply)
	}
	assert.Equal(t, []string{"Medicine Kit", "First Aid", "Water Bottle", "Food Ration", "Blanket"}, order)
}

func TestEngine_UrgentPassAccumulates(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	r := model.NewRecipient("U", 3, 1, 9)
	inv := model.NewDefaultInventory(1000)

	assert.Equal(t, 28, e.Capacity(r))
	recs := e.Allocate([]*model.Recipient{r}, inv)
	require.Len(t, recs, 1)
	assert.Equal(t, map[string]int{
		"Medicine Kit": 5,
		"Water Bottle": 6,
		"First Aid":    4,
		"Food Ration":  1,
		"Blanket":      1,
	}, recs[0].Quantities())
	assert.Equal(t, map[string]int{
		"Food Ration":  99,
		"Water Bottle": 144,
		"Medicine Kit": 45,
		"Blanket":      74,
		"First Aid":    36,
	}, inv.Quantities())
}

func TestEngine_CapacityFloor(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: -100}, nil)
	for _, r := range []*model.Recipient{
		model.NewRecipient("a", 1, 100, 1),
		model.NewRecipient("b", 10, 0.5, 10),
		model.NewRecipient("c", 3, 0, 5),
	} {
		assert.Equal(t, DefaultMinCapacity, e.Capacity(r), r.ID())
	}
}

func TestEngine_CapacityFloorIgnoresLowMinimum(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 0, MinCapacity: 1}, nil)
	assert.Equal(t, DefaultMinCapacity, e.Capacity(model.NewRecipient("a", 1, 1, 1)))
}

func TestEngine_DepletedInventoryYieldsEmptyRecords(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	inv := model.NewInventory(100)
	recs := e.Allocate([]*model.Recipient{model.NewRecipient("a", 3, 1, 5)}, inv)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].RecipientID)
	assert.False(t, recs[0].HasAllocations())
}

func TestEngine_RespectsCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := NewEngine(Config{BaseCapacity: 5}, nil)
	inv := model.NewDefaultInventory(1000)
	var rs []*model.Recipient
	for i := 0; i < 40; i++ {
		rs = append(rs, model.NewRecipient(string(rune('A'+i%26))+string(rune('a'+i/26)), 1+rng.Intn(8), 0.5+rng.Float64()*20, 1+rng.Intn(10)))
	}
	recs := e.Allocate(rs, inv)
	require.Len(t, recs, len(rs))
	byID := make(map[string]*model.Recipient, len(rs))
	for _, r := range rs {
		byID[r.ID()] = r
	}
	for _, rec := range recs {
		assert.LessOrEqual(t, rec.TotalWeight, e.Capacity(byID[rec.RecipientID]), rec.RecipientID)
	}
	for _, s := range inv.Supplies() {
		assert.GreaterOrEqual(t, s.Quantity, 0, s.Name)
	}
}

func TestEngine_ZeroSupply(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	inv := model.NewDefaultInventory(1000)
	for _, s := range inv.Supplies() {
		inv.SetQuantity(s.Name, 0)
	}
	rs := []*model.Recipient{
		model.NewRecipient("a", 2, 1, 5),
		model.NewRecipient("b", 3, 1, 9),
	}
	recs := e.Allocate(rs, inv)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.Empty(t, rec.Quantities())
		assert.Zero(t, rec.TotalValue)
		assert.Zero(t, rec.Score)
	}
	assert.Zero(t, inv.TotalQuantity())
}

func TestEngine_EmptyRoster(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	inv := model.NewDefaultInventory(1000)
	before := inv.Quantities()
	recs := e.Allocate(nil, inv)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Equal(t, before, inv.Quantities())
}

func TestEngine_InactiveExcluded(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	off := model.NewRecipient("off", 8, 0.5, 10)
	off.SetActive(false)
	on := model.NewRecipient("on", 2, 5, 2)
	recs := e.Allocate([]*model.Recipient{off, on}, model.NewDefaultInventory(1000))
	require.Len(t, recs, 1)
	assert.Equal(t, "on", recs[0].RecipientID)
}

func TestEngine_ScarcityFavorsPriority(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	low := model.NewRecipient("low", 5, 3, 2)
	high := model.NewRecipient("high", 5, 3, 6)
	inv := waterOnly(4)
	recs := e.Allocate([]*model.Recipient{low, high}, inv)
	require.Len(t, recs, 2)
	assert.Equal(t, "high", recs[0].RecipientID)
	assert.Equal(t, 4, recs[0].Quantity("water"))
	assert.Equal(t, "low", recs[1].RecipientID)
	assert.False(t, recs[1].HasAllocations())
}

func TestEngine_Deterministic(t *testing.T) {
	rs := []*model.Recipient{
		model.NewRecipient("a", 4, 2, 9),
		model.NewRecipient("b", 2, 1, 3),
		model.NewRecipient("c", 6, 8, 7),
		model.NewRecipient("d", 2, 1, 3),
	}
	base := model.NewDefaultInventory(1000)

	first, err := json.Marshal(NewEngine(Config{BaseCapacity: 20}, nil).Allocate(rs, base.Clone()))
	require.NoError(t, err)
	second, err := json.Marshal(NewEngine(Config{BaseCapacity: 20}, nil).Allocate(rs, base.Clone()))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestEngine_RebalanceConserves(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	inv := model.NewDefaultInventory(1000)
	before := inv.Quantities()
	rs := []*model.Recipient{
		model.NewRecipient("a", 4, 2, 9),
		model.NewRecipient("b", 6, 1, 4),
		model.NewRecipient("c", 1, 10, 2),
	}
	e.Allocate(rs, inv)

	rs[0].SetActive(false)
	recs := e.Rebalance(rs, inv)
	require.Len(t, recs, 2)

	after := inv.Quantities()
	for name, qty := range before {
		given := 0
		for _, rec := range recs {
			given += rec.Quantity(name)
		}
		assert.Equal(t, qty, after[name]+given, name)
	}
}

func TestEngine_RebalanceWithoutRunMatchesAllocate(t *testing.T) {
	rs := []*model.Recipient{model.NewRecipient("a", 4, 2, 9)}
	inv1 := model.NewDefaultInventory(1000)
	inv2 := inv1.Clone()
	got := NewEngine(Config{BaseCapacity: 20}, nil).Rebalance(rs, inv1)
	want := NewEngine(Config{BaseCapacity: 20}, nil).Allocate(rs, inv2)
	assert.Equal(t, want, got)
	assert.Equal(t, inv2.Quantities(), inv1.Quantities())
}

func TestEngine_SimulateLeavesInventory(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	inv := model.NewDefaultInventory(1000)
	before := inv.Quantities()
	recs, after, plans := e.Simulate([]*model.Recipient{model.NewRecipient("a", 4, 2, 9)}, inv)
	require.Len(t, recs, 1)
	require.Len(t, plans, 1)
	assert.Equal(t, "a", plans[0].RecipientID)
	assert.NotEmpty(t, plans[0].Steps)
	assert.Empty(t, e.LastPlans())
	assert.True(t, recs[0].HasAllocations())
	assert.Equal(t, before, inv.Quantities())
	assert.Less(t, after.TotalQuantity(), inv.TotalQuantity())
	assert.Empty(t, e.LastRecords())
}

func TestEngine_LastRecordsAreCopies(t *testing.T) {
	e := NewEngine(Config{BaseCapacity: 20}, nil)
	e.Allocate([]*model.Recipient{model.NewRecipient("a", 4, 2, 9)}, model.NewDefaultInventory(1000))
	last := e.LastRecords()
	require.Len(t, last, 1)
	last[0].Clear()
	assert.True(t, e.LastRecords()[0].HasAllocations())
}
