package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultInventory(t *testing.T) {
	inv := NewDefaultInventory(1000)
	require.Equal(t, 5, inv.Len())
	// 100*2 + 150*1 + 50*1 + 75*3 + 40*1
	assert.Equal(t, 665, inv.CurrentWeight())
	assert.Equal(t, 335, inv.RemainingCapacity())
	assert.False(t, inv.AtCapacity())
	names := []string{}
	for _, s := range inv.Supplies() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Food Ration", "Water Bottle", "Medicine Kit", "Blanket", "First Aid"}, names)
}

func TestInventoryAddSupplyMerges(t *testing.T) {
	inv := NewInventory(100)
	require.True(t, inv.AddSupply(NewSupply("Water Bottle", 1, 10, 5, "bottles")))
	require.True(t, inv.AddSupply(NewSupply("Water Bottle", 1, 10, 7, "bottles")))
	assert.False(t, inv.AddSupply(nil))
	s, ok := inv.Supply("Water Bottle")
	require.True(t, ok)
	assert.Equal(t, 12, s.Quantity)
	assert.Equal(t, 1, inv.Len())
	assert.Equal(t, 12, inv.CurrentWeight())
}

func TestInventoryRemoveSupply(t *testing.T) {
	inv := NewInventory(100)
	inv.AddSupply(NewSupply("Blanket", 3, 6, 4, "pieces"))
	assert.True(t, inv.RemoveSupply("Blanket", 3))
	assert.Equal(t, 3, inv.CurrentWeight())
	assert.False(t, inv.RemoveSupply("Blanket", 2), "insufficient stock must fail")
	assert.False(t, inv.RemoveSupply("Tent", 1), "unknown supply must fail")
	s, _ := inv.Supply("Blanket")
	assert.Equal(t, 1, s.Quantity)
}

func TestInventorySupplyReturnsCopy(t *testing.T) {
	inv := NewInventory(100)
	inv.AddSupply(NewSupply("Blanket", 3, 6, 4, "pieces"))
	s, _ := inv.Supply("Blanket")
	s.Quantity = 0
	again, _ := inv.Supply("Blanket")
	assert.Equal(t, 4, again.Quantity)
}

func TestInventoryHasSupplies(t *testing.T) {
	inv := NewInventory(10)
	assert.False(t, inv.HasSupplies())
	inv.AddSupply(NewSupply("Blanket", 3, 6, 0, "pieces"))
	assert.False(t, inv.HasSupplies())
	assert.Empty(t, inv.AvailableSupplies())
	inv.Restore("Blanket", 1)
	assert.True(t, inv.HasSupplies())
}

func TestInventoryCloneIsIndependent(t *testing.T) {
	inv := NewDefaultInventory(1000)
	cp := inv.Clone()
	require.True(t, cp.RemoveSupply("Water Bottle", 150))
	orig, _ := inv.Supply("Water Bottle")
	assert.Equal(t, 150, orig.Quantity)
	assert.Equal(t, inv.MaxCapacity(), cp.MaxCapacity())
}

func TestInventoryReset(t *testing.T) {
	inv := NewDefaultInventory(500)
	inv.RemoveSupply("Food Ration", 100)
	inv.AddSupply(NewSupply("Tent", 10, 20, 2, "pieces"))
	inv.Reset()
	assert.Equal(t, 5, inv.Len())
	s, _ := inv.Supply("Food Ration")
	assert.Equal(t, 100, s.Quantity)
	_, ok := inv.Supply("Tent")
	assert.False(t, ok)
}

func TestInventorySnapshot(t *testing.T) {
	inv := NewInventory(50)
	inv.AddSupply(NewSupply("First Aid", 1, 12, 10, "kits"))
	snap := inv.Snapshot()
	assert.Equal(t, 50, snap.MaxCapacity)
	assert.Equal(t, 10, snap.CurrentWeight)
	assert.Equal(t, 40, snap.RemainingCapacity)
	require.Len(t, snap.Supplies, 1)
	assert.Equal(t, CategoryFirstAid, snap.Supplies[0].Category)
}
