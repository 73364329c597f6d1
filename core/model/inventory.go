package model

import "errors"

// ErrUnknownSupply is returned by callers that look up a supply the inventory
// does not hold.
var ErrUnknownSupply = errors.New("unknown supply")

// Inventory owns the shared, mutable supply state consumed by allocation
// runs. Supplies are kept in insertion order so that every iteration over the
// inventory is deterministic. Inventory is not safe for concurrent use.
type Inventory struct {
	supplies    map[string]*Supply
	order       []string
	maxCapacity int
}

// Snapshot is a read-only view of an inventory.
type Snapshot struct {
	MaxCapacity       int      `json:"max_capacity"`
	CurrentWeight     int      `json:"current_weight"`
	RemainingCapacity int      `json:"remaining_capacity"`
	Supplies          []Supply `json:"supplies"`
}

// DefaultSupplies returns the standard relief kit an inventory is seeded with.
func DefaultSupplies() []*Supply {
	return []*Supply{
		NewSupply("Food Ration", 2, 8, 100, "packs"),
		NewSupply("Water Bottle", 1, 10, 150, "bottles"),
		NewSupply("Medicine Kit", 1, 15, 50, "kits"),
		NewSupply("Blanket", 3, 6, 75, "pieces"),
		NewSupply("First Aid", 1, 12, 40, "kits"),
	}
}

// NewInventory returns an empty inventory with the given weight capacity.
func NewInventory(maxCapacity int) *Inventory {
	return &Inventory{supplies: make(map[string]*Supply), maxCapacity: maxCapacity}
}

// NewDefaultInventory returns an inventory seeded with DefaultSupplies.
func NewDefaultInventory(maxCapacity int) *Inventory {
	inv := NewInventory(maxCapacity)
	inv.seed()
	return inv
}

func (inv *Inventory) seed() {
	for _, s := range DefaultSupplies() {
		inv.AddSupply(s)
	}
}

// AddSupply stores a copy of s. When a supply with the same name already
// exists its quantity is increased instead.
func (inv *Inventory) AddSupply(s *Supply) bool {
	if s == nil || s.Name == "" {
		return false
	}
	if existing, ok := inv.supplies[s.Name]; ok {
		existing.Add(s.Quantity)
		return true
	}
	inv.supplies[s.Name] = s.Clone()
	inv.order = append(inv.order, s.Name)
	return true
}

// RemoveSupply takes qty units of the named supply out of the inventory. It
// fails without mutation if the supply is unknown or holds fewer units.
func (inv *Inventory) RemoveSupply(name string, qty int) bool {
	s, ok := inv.supplies[name]
	if !ok {
		return false
	}
	return s.Reduce(qty)
}

// Restore returns qty units of a known supply to the inventory.
func (inv *Inventory) Restore(name string, qty int) bool {
	s, ok := inv.supplies[name]
	if !ok || qty <= 0 {
		return false
	}
	s.Add(qty)
	return true
}

// SetQuantity overwrites the quantity of a known supply.
func (inv *Inventory) SetQuantity(name string, qty int) bool {
	s, ok := inv.supplies[name]
	if !ok {
		return false
	}
	s.SetQuantity(qty)
	return true
}

// Supply returns a copy of the named supply.
func (inv *Inventory) Supply(name string) (Supply, bool) {
	s, ok := inv.supplies[name]
	if !ok {
		return Supply{}, false
	}
	return *s, true
}

// Supplies returns copies of all supplies, including depleted ones.
func (inv *Inventory) Supplies() []Supply {
	out := make([]Supply, 0, len(inv.order))
	for _, name := range inv.order {
		out = append(out, *inv.supplies[name])
	}
	return out
}

// AvailableSupplies returns copies of the supplies with at least one unit left.
func (inv *Inventory) AvailableSupplies() []Supply {
	var out []Supply
	for _, name := range inv.order {
		if s := inv.supplies[name]; s.Available() {
			out = append(out, *s)
		}
	}
	return out
}

// HasSupplies reports whether any supply is still available.
func (inv *Inventory) HasSupplies() bool {
	for _, s := range inv.supplies {
		if s.Available() {
			return true
		}
	}
	return false
}

// Len returns the number of supply kinds, depleted ones included.
func (inv *Inventory) Len() int { return len(inv.order) }

// CurrentWeight is derived from the live quantities on every call.
func (inv *Inventory) CurrentWeight() int {
	total := 0
	for _, s := range inv.supplies {
		total += s.Weight()
	}
	return total
}

// MaxCapacity returns the configured weight capacity.
func (inv *Inventory) MaxCapacity() int { return inv.maxCapacity }

// RemainingCapacity may be negative when the inventory is overfilled.
func (inv *Inventory) RemainingCapacity() int { return inv.maxCapacity - inv.CurrentWeight() }

// AtCapacity reports whether the held weight reached the capacity.
func (inv *Inventory) AtCapacity() bool { return inv.CurrentWeight() >= inv.maxCapacity }

// Usage returns the held weight as a percentage of capacity.
func (inv *Inventory) Usage() float64 {
	if inv.maxCapacity <= 0 {
		return 0
	}
	return float64(inv.CurrentWeight()) / float64(inv.maxCapacity) * 100
}

// Quantities returns the quantity per supply name.
func (inv *Inventory) Quantities() map[string]int {
	out := make(map[string]int, len(inv.supplies))
	for name, s := range inv.supplies {
		out[name] = s.Quantity
	}
	return out
}

// TotalQuantity sums the quantities of every supply.
func (inv *Inventory) TotalQuantity() int {
	total := 0
	for _, s := range inv.supplies {
		total += s.Quantity
	}
	return total
}

// Reset drops all supplies and reseeds the defaults.
func (inv *Inventory) Reset() {
	inv.supplies = make(map[string]*Supply)
	inv.order = nil
	inv.seed()
}

// Clone returns a deep copy sharing no state with inv.
func (inv *Inventory) Clone() *Inventory {
	cp := NewInventory(inv.maxCapacity)
	for _, name := range inv.order {
		cp.AddSupply(inv.supplies[name])
	}
	return cp
}

// Snapshot returns a read-only view of the inventory.
func (inv *Inventory) Snapshot() Snapshot {
	return Snapshot{
		MaxCapacity:       inv.maxCapacity,
		CurrentWeight:     inv.CurrentWeight(),
		RemainingCapacity: inv.RemainingCapacity(),
		Supplies:          inv.Supplies(),
	}
}
