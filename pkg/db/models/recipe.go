package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultBasePortions = 4

// Recipe lists ingredient quantities for BasePortions servings.
type Recipe struct {
	ID           uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID      uuid.UUID    `gorm:"column:owner_id;type:uuid;not null;index"`
	Name         string       `gorm:"column:name;not null"`
	BasePortions int          `gorm:"column:base_portions;not null;default:4"`
	Lines        []RecipeLine `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Steps        []RecipeStep `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Recipe) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

type RecipeLine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	RecipeID     uuid.UUID       `gorm:"column:recipe_id;type:uuid;not null;index"`
	IngredientID uuid.UUID       `gorm:"column:ingredient_id;type:uuid;not null"`
	Ingredient   *Ingredient     `gorm:"foreignKey:IngredientID"`
	Position     int             `gorm:"column:position;not null;default:0"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(14,3);not null"`
	Unit         string          `gorm:"column:unit;not null;default:''"`
}

func (l *RecipeLine) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}

type RecipeStep struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RecipeID uuid.UUID `gorm:"column:recipe_id;type:uuid;not null;index"`
	Position int       `gorm:"column:position;not null"`
	Text     string    `gorm:"column:text;not null"`
}

func (s *RecipeStep) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// ScaledLine is a recipe line resized for a requested number of portions.
type ScaledLine struct {
	IngredientID uuid.UUID
	Ingredient   *Ingredient
	Position     int
	Quantity     decimal.Decimal
	Unit         string
}

// IngredientsForPortions scales every line by portions / BasePortions, in
// line order. A recipe without a usable base yield is returned unscaled.
func (r *Recipe) IngredientsForPortions(portions int) []ScaledLine {
	if r == nil {
		return nil
	}
	lines := make([]RecipeLine, len(r.Lines))
	copy(lines, r.Lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })

	out := make([]ScaledLine, 0, len(lines))
	for _, line := range lines {
		qty := line.Quantity
		if r.BasePortions > 0 {
			qty = qty.Mul(decimal.NewFromInt(int64(portions))).Div(decimal.NewFromInt(int64(r.BasePortions)))
		}
		out = append(out, ScaledLine{
			IngredientID: line.IngredientID,
			Ingredient:   line.Ingredient,
			Position:     line.Position,
			Quantity:     qty,
			Unit:         line.Unit,
		})
	}
	return out
}
