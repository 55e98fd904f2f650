// Package emissions derives a dish's carbon footprint from its current
// ingredient links. Everything here is a pure computation; persistence of
// the derived total belongs to the caller.
package emissions

import (
	"strings"

	"github.com/aalghefa/ecologic-backend/internal/models"
)

// Kilograms normalizes a link quantity to kilograms. Gram quantities divide
// by 1000; kilograms and unspecified units pass through. Unknown unit
// strings are treated as already being kilograms. That fallback is a
// deliberate lenient default, not an error path.
func Kilograms(quantity float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gram", "grams":
		return quantity / 1000
	default:
		return quantity
	}
}

// Total computes the dish total as a full re-sum over all current links.
// Never adjust a stored total incrementally: re-deriving from scratch on
// every mutation is what keeps the stored value from drifting away from
// this formula. A link whose ingredient has no emissions factor contributes
// zero, so a dish with unrated ingredients still totals the rated part.
func Total(links []models.DishIngredientDetail) float64 {
	var total float64
	for _, l := range links {
		if l.KgCO2ePerKg == nil {
			continue
		}
		total += Kilograms(l.Quantity, l.Unit) * *l.KgCO2ePerKg
	}
	return total
}

// Breakdown expands the same computation as Total into per-ingredient
// contributions for display. The sum of the item contributions equals
// Total over the same links.
func Breakdown(dishID string, links []models.DishIngredientDetail) models.DishEmissions {
	out := models.DishEmissions{DishID: dishID, Items: make([]models.EmissionsItem, 0, len(links))}
	for _, l := range links {
		item := models.EmissionsItem{
			IngredientID:   l.IngredientID,
			IngredientName: l.IngredientName,
			QuantityKg:     Kilograms(l.Quantity, l.Unit),
		}
		if l.KgCO2ePerKg == nil {
			item.Unrated = true
		} else {
			item.KgCO2ePerKg = *l.KgCO2ePerKg
			item.KgCO2e = item.QuantityKg * item.KgCO2ePerKg
		}
		out.TotalKgCO2 += item.KgCO2e
		out.Items = append(out.Items, item)
	}
	return out
}
