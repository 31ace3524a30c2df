// Package dbtest opens throwaway in-memory SQLite databases carrying the
// full model schema, plus seed helpers shared by repository and service tests.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
)

// Models lists every persisted model in dependency order.
func Models() []any {
	return models.All()
}

// Open returns a migrated in-memory database private to the calling test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", sanitize(t.Name()), uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(Models()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// IngredientOption tweaks a seeded ingredient.
type IngredientOption func(*models.Ingredient)

func WithCategory(c enums.IngredientCategory) IngredientOption {
	return func(i *models.Ingredient) { i.Category = c }
}

func WithPieceWeight(grams string) IngredientOption {
	return func(i *models.Ingredient) {
		i.EstimatedPieceWeightG = decimal.NewNullDecimal(decimal.RequireFromString(grams))
	}
}

func WithThreshold(q string) IngredientOption {
	return func(i *models.Ingredient) {
		i.LowStockThreshold = decimal.NewNullDecimal(decimal.RequireFromString(q))
	}
}

func WithSeason(months ...int) IngredientOption {
	return func(i *models.Ingredient) { i.SeasonMonths = months }
}

func WithStorage(location string) IngredientOption {
	return func(i *models.Ingredient) { i.StorageLocation = &location }
}

func MustCreateIngredient(t *testing.T, conn *gorm.DB, name, baseUnit string, opts ...IngredientOption) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{
		Name:     name,
		Category: enums.CategoryOther,
		BaseUnit: baseUnit,
	}
	for _, opt := range opts {
		opt(ing)
	}
	if err := conn.Create(ing).Error; err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return ing
}

// Line describes a recipe line for MustCreateRecipe.
type Line struct {
	Ingredient *models.Ingredient
	Quantity   string
	Unit       string
}

func MustCreateRecipe(t *testing.T, conn *gorm.DB, ownerID uuid.UUID, name string, basePortions int, lines ...Line) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{OwnerID: ownerID, Name: name, BasePortions: basePortions}
	for i, l := range lines {
		recipe.Lines = append(recipe.Lines, models.RecipeLine{
			IngredientID: l.Ingredient.ID,
			Position:     i,
			Quantity:     decimal.RequireFromString(l.Quantity),
			Unit:         l.Unit,
		})
	}
	if err := conn.Create(recipe).Error; err != nil {
		t.Fatalf("create recipe %s: %v", name, err)
	}
	return recipe
}

// Slot places a recipe on a menu day.
type Slot struct {
	Day    int
	Slot   enums.MealSlot
	Recipe *models.Recipe
}

func MustCreateMenu(t *testing.T, conn *gorm.DB, ownerID uuid.UUID, headcount int, slots ...Slot) *models.Menu {
	t.Helper()
	menu := &models.Menu{
		OwnerID:   ownerID,
		Name:      "Week",
		StartDate: time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC),
		Headcount: headcount,
	}
	for _, s := range slots {
		a := models.MenuAssignment{DayIndex: s.Day, Slot: s.Slot}
		if s.Recipe != nil {
			id := s.Recipe.ID
			a.RecipeID = &id
		}
		menu.Assignments = append(menu.Assignments, a)
	}
	if err := conn.Create(menu).Error; err != nil {
		t.Fatalf("create menu: %v", err)
	}
	return menu
}

func MustCreateStock(t *testing.T, conn *gorm.DB, userID uuid.UUID, ing *models.Ingredient, qty, unit string) *models.StockEntry {
	t.Helper()
	entry := &models.StockEntry{
		UserID:       userID,
		IngredientID: ing.ID,
		Quantity:     decimal.RequireFromString(qty),
		Unit:         unit,
	}
	if err := conn.Create(entry).Error; err != nil {
		t.Fatalf("create stock entry: %v", err)
	}
	return entry
}
