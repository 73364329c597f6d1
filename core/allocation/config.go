package allocation

import "fmt"

// Config tunes the allocation engine. The zero values of the thresholds are
// replaced by the defaults in SetDefaults.
type Config struct {
	// BaseCapacity is the weight budget every recipient starts from.
	BaseCapacity int `json:"base_capacity"`
	// InventoryCapacity is the weight capacity of the managed inventory.
	InventoryCapacity int `json:"inventory_capacity"`
	// UrgencyThreshold enables the urgent pass for recipients at or above it.
	UrgencyThreshold int `json:"urgency_threshold"`
	// UrgentCap bounds the units per category handed out by the urgent pass.
	UrgentCap int `json:"urgent_cap"`
	// MedicineUrgency is the urgency from which two medicine kits are targeted.
	MedicineUrgency int `json:"medicine_urgency"`
	// MinCapacity is the floor of every recipient capacity.
	MinCapacity int `json:"min_capacity"`
}

const (
	DefaultBaseCapacity      = 20
	DefaultInventoryCapacity = 1000
	DefaultUrgencyThreshold  = 8
	DefaultUrgentCap         = 3
	DefaultMedicineUrgency   = 7
	DefaultMinCapacity       = 5
)

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	c := Config{BaseCapacity: DefaultBaseCapacity, InventoryCapacity: DefaultInventoryCapacity}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset thresholds. BaseCapacity is left alone since zero
// is a meaningful budget.
func (c *Config) SetDefaults() {
	if c.InventoryCapacity == 0 {
		c.InventoryCapacity = DefaultInventoryCapacity
	}
	if c.UrgencyThreshold == 0 {
		c.UrgencyThreshold = DefaultUrgencyThreshold
	}
	if c.UrgentCap == 0 {
		c.UrgentCap = DefaultUrgentCap
	}
	if c.MedicineUrgency == 0 {
		c.MedicineUrgency = DefaultMedicineUrgency
	}
	if c.MinCapacity == 0 {
		c.MinCapacity = DefaultMinCapacity
	}
}

// Validate rejects settings the engine cannot work with.
func (c Config) Validate() error {
	if c.InventoryCapacity < 0 {
		return fmt.Errorf("inventory_capacity must not be negative")
	}
	if c.UrgentCap < 0 {
		return fmt.Errorf("urgent_cap must not be negative")
	}
	if c.MinCapacity < DefaultMinCapacity {
		return fmt.Errorf("min_capacity must be at least %d", DefaultMinCapacity)
	}
	if c.UrgencyThreshold < 1 || c.MedicineUrgency < 1 {
		return fmt.Errorf("urgency thresholds must be at least 1")
	}
	return nil
}
