// Package demand totals the ingredients a menu needs, in base units.
package demand

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/catalog"
	"github.com/angelmondragon/mealplanner-backend/internal/units"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
)

// Key identifies one demand entry. Lines for the same ingredient whose units
// normalize differently stay under separate keys.
type Key struct {
	IngredientID uuid.UUID
	Unit         string
}

// Line is one accumulated demand entry.
type Line struct {
	Key
	Ingredient *models.Ingredient
	Quantity   decimal.Decimal
}

// Demand is an ordered demand vector: entries keep the order in which a
// menu first needed them (day, slot, recipe line).
type Demand struct {
	lines []Line
	index map[Key]int
}

func newDemand() *Demand {
	return &Demand{index: map[Key]int{}}
}

func (d *Demand) add(key Key, ing *models.Ingredient, q decimal.Decimal) {
	if i, ok := d.index[key]; ok {
		d.lines[i].Quantity = d.lines[i].Quantity.Add(q)
		return
	}
	d.index[key] = len(d.lines)
	d.lines = append(d.lines, Line{Key: key, Ingredient: ing, Quantity: q})
}

// Lines returns a copy of the entries in order.
func (d *Demand) Lines() []Line {
	if d == nil {
		return nil
	}
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *Demand) Len() int {
	if d == nil {
		return 0
	}
	return len(d.lines)
}

// Get returns the total for key.
func (d *Demand) Get(key Key) (decimal.Decimal, bool) {
	if d == nil {
		return decimal.Zero, false
	}
	i, ok := d.index[key]
	if !ok {
		return decimal.Zero, false
	}
	return d.lines[i].Quantity, true
}

// Compute scales every assigned recipe to the menu headcount, normalizes each
// line and sums per (ingredient, base unit). A menu without assignments
// yields an empty demand.
func Compute(menu *models.Menu) *Demand {
	d := newDemand()
	if menu == nil {
		return d
	}
	headcount := menu.Headcount
	if headcount <= 0 {
		headcount = models.DefaultHeadcount
	}

	assignments := make([]models.MenuAssignment, len(menu.Assignments))
	copy(assignments, menu.Assignments)
	catalog.SortAssignments(assignments)

	for _, a := range assignments {
		if a.Recipe == nil {
			continue
		}
		for _, line := range a.Recipe.IngredientsForPortions(headcount) {
			q, base, _ := units.Normalize(line.Quantity, line.Unit, line.Ingredient)
			d.add(Key{IngredientID: line.IngredientID, Unit: base}, line.Ingredient, q)
		}
	}
	return d
}

type menuLoader interface {
	GetMenu(ctx context.Context, ownerID, id uuid.UUID) (*models.Menu, error)
}

// Aggregator loads menus and computes their demand.
type Aggregator struct {
	menus menuLoader
}

func NewAggregator(menus menuLoader) (*Aggregator, error) {
	if menus == nil {
		return nil, fmt.Errorf("menu loader required")
	}
	return &Aggregator{menus: menus}, nil
}

// ForMenu loads the user's menu and returns it with its demand.
func (a *Aggregator) ForMenu(ctx context.Context, userID, menuID uuid.UUID) (*models.Menu, *Demand, error) {
	menu, err := a.menus.GetMenu(ctx, userID, menuID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu not found")
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu")
	}
	return menu, Compute(menu), nil
}

// LineView is a demand entry prepared for display.
type LineView struct {
	IngredientID    uuid.UUID        `json:"ingredient_id"`
	IngredientName  string           `json:"ingredient_name"`
	Category        string           `json:"category"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Unit            string           `json:"unit"`
	DisplayQuantity decimal.Decimal  `json:"display_quantity"`
	DisplayUnit     string           `json:"display_unit"`
	DetailGrams     *decimal.Decimal `json:"detail_grams,omitempty"`
}

// Views renders every line with its display conversion.
func (d *Demand) Views() []LineView {
	out := make([]LineView, 0, d.Len())
	for _, l := range d.Lines() {
		v := LineView{
			IngredientID: l.IngredientID,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
		}
		if l.Ingredient != nil {
			v.IngredientName = l.Ingredient.Name
			v.Category = l.Ingredient.Category.String()
		}
		v.DisplayQuantity, v.DisplayUnit, v.DetailGrams = units.DenormalizeForDisplay(l.Quantity, l.Unit, l.Ingredient)
		out = append(out, v)
	}
	return out
}
