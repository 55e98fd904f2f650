package models

import (
	"time"
)

// Quantity units accepted on ingredient links and ledger rows. Anything else
// is stored verbatim and treated as kilograms by the emissions aggregator.
const (
	UnitGram        = "g"
	UnitKilogram    = "kg"
	UnitUnspecified = ""
)

// Dish is one confirmed menu item. EmissionsTotal is a derived cache: it is
// rewritten from the current ingredient links on every link mutation and is
// never patched incrementally.
type Dish struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	Category       string    `db:"category" json:"category"`
	Price          float64   `db:"price" json:"price"`
	ImageURL       string    `db:"image_url" json:"image_url"`
	EmissionsTotal float64   `db:"emissions_total" json:"emissions_total"` // kg CO2e per serving
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Ingredient is catalog reference data. KgCO2ePerKg is the emissions factor;
// nil means "not yet rated" and contributes zero to dish totals.
type Ingredient struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	KgCO2ePerKg *float64  `db:"kg_co2e_per_kg" json:"kg_co2e_per_kg"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DishIngredient links one ingredient to one dish with a quantity. There is
// at most one row per (dish, ingredient) pair; writes are upserts.
type DishIngredient struct {
	DishID       string    `db:"dish_id" json:"dish_id"`
	IngredientID string    `db:"ingredient_id" json:"ingredient_id"`
	Quantity     float64   `db:"quantity" json:"quantity"`
	Unit         string    `db:"unit" json:"unit"` // "g", "kg" or empty
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DishIngredientDetail is the joined read model the emissions aggregator
// consumes: one link plus the linked ingredient's name and factor.
type DishIngredientDetail struct {
	DishIngredient
	IngredientName string   `db:"ingredient_name" json:"ingredient_name"`
	KgCO2ePerKg    *float64 `db:"kg_co2e_per_kg" json:"kg_co2e_per_kg"`
}

// MenuCandidate is one unconfirmed {name, price} pair inferred from menu
// text. Candidates go back to the caller for review; the extractor never
// writes them to storage.
type MenuCandidate struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	SourceText string  `json:"source_text"`
}

// Purchase is one row of the ingredient purchase ledger.
type Purchase struct {
	ID           string    `db:"id" json:"id"`
	IngredientID string    `db:"ingredient_id" json:"ingredient_id"`
	Quantity     float64   `db:"quantity" json:"quantity"`
	Unit         string    `db:"unit" json:"unit"`
	Cost         float64   `db:"cost" json:"cost"`
	Supplier     string    `db:"supplier" json:"supplier"`
	PurchasedAt  time.Time `db:"purchased_at" json:"purchased_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// WasteEvent is one row of the waste ledger.
type WasteEvent struct {
	ID           string    `db:"id" json:"id"`
	IngredientID string    `db:"ingredient_id" json:"ingredient_id"`
	Quantity     float64   `db:"quantity" json:"quantity"`
	Unit         string    `db:"unit" json:"unit"`
	Reason       string    `db:"reason" json:"reason"`
	OccurredAt   time.Time `db:"occurred_at" json:"occurred_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DishEmissions is the live emissions view for one dish: the freshly derived
// total plus the per-ingredient contributions it is the sum of.
type DishEmissions struct {
	DishID     string          `json:"dish_id"`
	TotalKgCO2 float64         `json:"total_kg_co2e"`
	Items      []EmissionsItem `json:"items"`
}

// EmissionsItem is one ingredient's contribution to a dish total.
type EmissionsItem struct {
	IngredientID   string  `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	QuantityKg     float64 `json:"quantity_kg"`
	KgCO2ePerKg    float64 `json:"kg_co2e_per_kg"`
	KgCO2e         float64 `json:"kg_co2e"`
	Unrated        bool    `json:"unrated,omitempty"`
}
