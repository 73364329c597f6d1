package allocation

import "github.com/kilianp07/supplymate/core/model"

// urgentCategories is walked in order by the urgent pass.
var urgentCategories = []model.Category{
	model.CategoryMedicine,
	model.CategoryWater,
	model.CategoryFirstAid,
}

type targetRule func(cfg Config, r *model.Recipient) int

func halfHousehold(_ Config, r *model.Recipient) int { return max(1, r.Size()/2) }

// targetRules gives the number of units a recipient should receive per
// category during the general pass. Categories without a rule use
// halfHousehold.
var targetRules = map[model.Category]targetRule{
	model.CategoryWater: func(_ Config, r *model.Recipient) int { return r.Size() },
	model.CategoryFood:  halfHousehold,
	model.CategoryMedicine: func(cfg Config, r *model.Recipient) int {
		if r.Urgency() >= cfg.MedicineUrgency {
			return 2
		}
		return 1
	},
	model.CategoryBlanket: func(_ Config, r *model.Recipient) int { return max(1, r.Size()/3) },
}

// TargetUnits returns the general pass target for a category.
func (c Config) TargetUnits(cat model.Category, r *model.Recipient) int {
	if rule, ok := targetRules[cat]; ok {
		return rule(c, r)
	}
	return halfHousehold(c, r)
}
