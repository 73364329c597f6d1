package model

import "strings"

// Category tags a supply with the kind of relief good it represents. The
// allocation rules are keyed by category, never by supply name.
type Category int

const (
	CategoryOther Category = iota
	CategoryWater
	CategoryFood
	CategoryMedicine
	CategoryBlanket
	CategoryFirstAid
)

// String returns the configuration name of the category.
func (c Category) String() string {
	switch c {
	case CategoryWater:
		return "water"
	case CategoryFood:
		return "food"
	case CategoryMedicine:
		return "medicine"
	case CategoryBlanket:
		return "blanket"
	case CategoryFirstAid:
		return "first_aid"
	default:
		return "other"
	}
}

// ParseCategory converts a configuration name to a Category. Unknown names map
// to CategoryOther.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "water":
		return CategoryWater
	case "food":
		return CategoryFood
	case "medicine":
		return CategoryMedicine
	case "blanket":
		return CategoryBlanket
	case "first_aid", "firstaid":
		return CategoryFirstAid
	default:
		return CategoryOther
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	*c = ParseCategory(string(b))
	return nil
}

// CategoryFromName infers the category of one of the well-known relief
// supplies from its display name, falling back to ParseCategory.
func CategoryFromName(name string) Category {
	switch name {
	case "Water Bottle":
		return CategoryWater
	case "Food Ration":
		return CategoryFood
	case "Medicine Kit":
		return CategoryMedicine
	case "Blanket":
		return CategoryBlanket
	case "First Aid":
		return CategoryFirstAid
	default:
		return ParseCategory(name)
	}
}
