package stock

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
)

// fallbackCategory is used for ingredients whose category is missing or not
// in the table.
const fallbackCategory = enums.CategoryOther

var lowStockThresholds = map[enums.IngredientCategory]decimal.Decimal{
	enums.CategoryProduce:    decimal.NewFromInt(200),
	enums.CategoryMeatFish:   decimal.NewFromInt(200),
	enums.CategoryDairy:      decimal.NewFromInt(100),
	enums.CategorySavoury:    decimal.NewFromInt(100),
	enums.CategorySweet:      decimal.NewFromInt(100),
	enums.CategoryFrozen:     decimal.NewFromInt(200),
	enums.CategoryDrinks:     decimal.NewFromInt(250),
	enums.CategoryBakery:     decimal.NewFromInt(1),
	enums.CategoryCondiments: decimal.NewFromInt(50),
	enums.CategoryHerbs:      decimal.NewFromInt(10),
	enums.CategoryCanned:     decimal.NewFromInt(1),
	enums.CategoryPastaRice:  decimal.NewFromInt(200),
	enums.CategoryOils:       decimal.NewFromInt(100),
	enums.CategoryOther:      decimal.NewFromInt(50),
}

// Threshold returns the quantity at or under which ing counts as running low.
func Threshold(ing *models.Ingredient) decimal.Decimal {
	if ing != nil && ing.LowStockThreshold.Valid {
		return ing.LowStockThreshold.Decimal
	}
	if ing != nil {
		if t, ok := lowStockThresholds[ing.Category]; ok {
			return t
		}
	}
	return lowStockThresholds[fallbackCategory]
}

// IsLow reports whether entry is at or below its ingredient's threshold.
func IsLow(entry *models.StockEntry, ing *models.Ingredient) bool {
	if entry == nil {
		return false
	}
	if ing == nil {
		ing = entry.Ingredient
	}
	return entry.Quantity.LessThanOrEqual(Threshold(ing))
}
