package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/supplymate/core/allocation"
	"github.com/kilianp07/supplymate/core/model"
)

type SupplyDef struct {
	Name       string `yaml:"name"`
	Category   string `yaml:"category,omitempty"`
	UnitWeight int    `yaml:"unit_weight"`
	UnitValue  int    `yaml:"unit_value"`
	Quantity   int    `yaml:"quantity"`
	Unit       string `yaml:"unit,omitempty"`
}

// ToModel builds the supply. Without an explicit category it is inferred
// from the name.
func (s SupplyDef) ToModel() *model.Supply {
	sup := model.NewSupply(s.Name, s.UnitWeight, s.UnitValue, s.Quantity, s.Unit)
	if s.Category != "" {
		sup.Category = model.ParseCategory(s.Category)
	}
	return sup
}

type RecipientDef struct {
	ID       string  `yaml:"id"`
	Size     int     `yaml:"size"`
	Distance float64 `yaml:"distance"`
	Urgency  int     `yaml:"urgency"`
	Active   *bool   `yaml:"active,omitempty"`
}

func (r RecipientDef) ToModel() *model.Recipient {
	rec := model.NewRecipient(r.ID, r.Size, r.Distance, r.Urgency)
	if r.Active != nil {
		rec.SetActive(*r.Active)
	}
	return rec
}

// Expected lists the outcomes a scenario asserts. Unset fields are not checked.
type Expected struct {
	Served    *int                      `yaml:"served,omitempty"`
	Allocated map[string]map[string]int `yaml:"allocated,omitempty"`
	Remaining map[string]int            `yaml:"remaining,omitempty"`
}

type Scenario struct {
	Name              string         `yaml:"name"`
	Description       string         `yaml:"description,omitempty"`
	BaseCapacity      *int           `yaml:"base_capacity,omitempty"`
	InventoryCapacity int            `yaml:"inventory_capacity,omitempty"`
	Supplies          []SupplyDef    `yaml:"supplies,omitempty"`
	Recipients        []RecipientDef `yaml:"recipients"`
	Expected          Expected       `yaml:"expected,omitempty"`
}

// Config returns the engine configuration of the scenario on top of the
// default configuration.
func (sc *Scenario) Config() allocation.Config {
	return sc.Apply(allocation.DefaultConfig())
}

// Apply overrides base with the capacities the scenario sets.
func (sc *Scenario) Apply(base allocation.Config) allocation.Config {
	cfg := base
	if sc.BaseCapacity != nil {
		cfg.BaseCapacity = *sc.BaseCapacity
	}
	if sc.InventoryCapacity > 0 {
		cfg.InventoryCapacity = sc.InventoryCapacity
	}
	return cfg
}

// Inventory builds a fresh inventory sized by Config.
func (sc *Scenario) Inventory() *model.Inventory {
	return sc.InventoryWithCapacity(sc.Config().InventoryCapacity)
}

// InventoryWithCapacity builds a fresh inventory. Scenarios without supplies
// use the default relief kit.
func (sc *Scenario) InventoryWithCapacity(capacity int) *model.Inventory {
	if len(sc.Supplies) == 0 {
		return model.NewDefaultInventory(capacity)
	}
	inv := model.NewInventory(capacity)
	for _, s := range sc.Supplies {
		inv.AddSupply(s.ToModel())
	}
	return inv
}

// Roster builds and validates the recipients.
func (sc *Scenario) Roster() ([]*model.Recipient, error) {
	out := make([]*model.Recipient, 0, len(sc.Recipients))
	for _, d := range sc.Recipients {
		r := d.ToModel()
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Summary describes the scenario in one line.
func (sc *Scenario) Summary() string {
	supplies := len(sc.Supplies)
	if supplies == 0 {
		supplies = len(model.DefaultSupplies())
	}
	return fmt.Sprintf("%s: %s (%d recipients, %d supply types)", sc.Name, sc.Description, len(sc.Recipients), supplies)
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	return &sc, nil
}

// Save writes the scenario as YAML.
func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
