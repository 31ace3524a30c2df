package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
)

// Ingredient is a catalog entry shared by recipes, stock and shopping lists.
type Ingredient struct {
	ID                    uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	Name                  string                   `gorm:"column:name;not null;uniqueIndex"`
	Category              enums.IngredientCategory `gorm:"column:category;not null;default:'Autre'"`
	BaseUnit              string                   `gorm:"column:base_unit;not null;default:'g'"`
	EstimatedPieceWeightG decimal.NullDecimal      `gorm:"column:estimated_piece_weight_g;type:numeric(14,3)"`
	LowStockThreshold     decimal.NullDecimal      `gorm:"column:low_stock_threshold;type:numeric(14,3)"`
	StorageLocation       *string                  `gorm:"column:storage_location"`
	SeasonMonths          datatypes.JSONSlice[int] `gorm:"column:season_months"`
	CreatedAt             time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// PieceWeightGrams returns the estimated weight of one piece when known.
// A nil ingredient or a non-positive weight reports false.
func (i *Ingredient) PieceWeightGrams() (decimal.Decimal, bool) {
	if i == nil || !i.EstimatedPieceWeightG.Valid || !i.EstimatedPieceWeightG.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return i.EstimatedPieceWeightG.Decimal, true
}

// InSeason reports whether month is listed in SeasonMonths. Ingredients
// without season data are always in season.
func (i *Ingredient) InSeason(month time.Month) bool {
	if i == nil || len(i.SeasonMonths) == 0 {
		return true
	}
	for _, m := range i.SeasonMonths {
		if m == int(month) {
			return true
		}
	}
	return false
}

// Location returns the storage location or an empty string.
func (i *Ingredient) Location() string {
	if i == nil || i.StorageLocation == nil {
		return ""
	}
	return *i.StorageLocation
}
