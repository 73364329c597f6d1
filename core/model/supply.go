package model

import "fmt"

// Supply is a single category of relief goods held by an Inventory.
type Supply struct {
	Name       string   `json:"name" yaml:"name"`
	Category   Category `json:"category" yaml:"category"`
	UnitWeight int      `json:"unit_weight" yaml:"unit_weight"`
	UnitValue  int      `json:"unit_value" yaml:"unit_value"`
	Quantity   int      `json:"quantity" yaml:"quantity"`
	Unit       string   `json:"unit" yaml:"unit"`
}

// NewSupply returns a supply whose category is inferred from its name.
func NewSupply(name string, weight, value, quantity int, unit string) *Supply {
	s := &Supply{
		Name:       name,
		Category:   CategoryFromName(name),
		UnitWeight: weight,
		UnitValue:  value,
		Unit:       unit,
	}
	s.SetQuantity(quantity)
	return s
}

// SetQuantity overwrites the available quantity. Negative values are clamped to zero.
func (s *Supply) SetQuantity(q int) {
	if q < 0 {
		q = 0
	}
	s.Quantity = q
}

// Reduce removes n units. It returns false and leaves the supply untouched
// when n is negative or exceeds the available quantity.
func (s *Supply) Reduce(n int) bool {
	if n < 0 || n > s.Quantity {
		return false
	}
	s.Quantity -= n
	return true
}

// Add puts n units back. Non-positive amounts are ignored.
func (s *Supply) Add(n int) {
	if n > 0 {
		s.Quantity += n
	}
}

// Available reports whether at least one unit is left.
func (s *Supply) Available() bool { return s.Quantity > 0 }

// ValueWeightRatio returns value per unit of weight, or 0 for weightless supplies.
func (s *Supply) ValueWeightRatio() float64 {
	if s.UnitWeight <= 0 {
		return 0
	}
	return float64(s.UnitValue) / float64(s.UnitWeight)
}

// Weight returns the total weight currently held.
func (s *Supply) Weight() int { return s.UnitWeight * s.Quantity }

// Clone returns an independent copy.
func (s *Supply) Clone() *Supply {
	cp := *s
	return &cp
}

func (s *Supply) String() string {
	return fmt.Sprintf("Supply[%s: %d%s, Weight=%d, Value=%d, Available=%t]",
		s.Name, s.Quantity, s.Unit, s.UnitWeight, s.UnitValue, s.Available())
}
