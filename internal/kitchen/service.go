// Package kitchen consumes stock when a recipe is cooked and works out which
// recipes the current stock can still feed.
package kitchen

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/stock"
	"github.com/angelmondragon/mealplanner-backend/internal/units"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type recipeLoader interface {
	GetRecipe(ctx context.Context, ownerID, id uuid.UUID) (*models.Recipe, error)
	ListRecipesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Recipe, error)
}

type Service interface {
	Cook(ctx context.Context, userID, recipeID uuid.UUID, portions int) (*CookResult, error)
	PossibleRecipes(ctx context.Context, userID uuid.UUID) ([]PossibleRecipe, error)
}

type service struct {
	recipes recipeLoader
	stock   stock.Service
	tx      txRunner
	logg    *logger.Logger
}

func NewService(recipes recipeLoader, ledger stock.Service, tx txRunner, logg *logger.Logger) (Service, error) {
	if recipes == nil {
		return nil, fmt.Errorf("recipe loader required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{recipes: recipes, stock: ledger, tx: tx, logg: logg}, nil
}

// CookResult names the ingredients a cook debited and those that were short.
// An ingredient only partly covered appears in both.
type CookResult struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Portions int       `json:"portions"`
	Removed  []string  `json:"removed"`
	Missing  []string  `json:"missing"`
}

// PossibleRecipe is a recipe the current stock can cover for Portions people.
type PossibleRecipe struct {
	RecipeID uuid.UUID       `json:"recipe_id"`
	Name     string          `json:"name"`
	Portions int             `json:"portions"`
	Ratio    decimal.Decimal `json:"ratio"`
}

// Cook debits every recipe line scaled to portions. Zero portions means the
// recipe's own yield. Lines stocked in an incomparable unit are reported
// missing and left alone.
func (s *service) Cook(ctx context.Context, userID, recipeID uuid.UUID, portions int) (*CookResult, error) {
	if portions < 0 {
		return nil, pkgerrors.Validation("invalid portions", pkgerrors.FieldErrors{"portions": "must not be negative"})
	}
	recipe, err := s.recipes.GetRecipe(ctx, userID, recipeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipe not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipe")
	}
	if portions == 0 {
		portions = recipe.BasePortions
		if portions <= 0 {
			portions = models.DefaultBasePortions
		}
	}

	result := &CookResult{RecipeID: recipe.ID, Portions: portions, Removed: []string{}, Missing: []string{}}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ledger := s.stock.WithTx(tx)
		for _, line := range recipe.IngredientsForPortions(portions) {
			name := ingredientName(line.Ingredient)
			entry, err := ledger.Get(ctx, userID, line.IngredientID)
			if err != nil {
				return err
			}
			if entry == nil || !entry.Quantity.IsPositive() {
				result.Missing = append(result.Missing, name)
				continue
			}
			need, ok := units.Convert(line.Quantity, line.Unit, entry.Unit, line.Ingredient)
			if !ok {
				result.Missing = append(result.Missing, name)
				continue
			}
			debit, err := ledger.Debit(ctx, userID, line.IngredientID, need)
			if err != nil {
				return err
			}
			result.Removed = append(result.Removed, name)
			if debit.Removed.LessThan(need) {
				result.Missing = append(result.Missing, name)
			}
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cook recipe")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"recipe_id": recipe.ID.String(),
		"portions":  portions,
		"removed":   len(result.Removed),
		"missing":   len(result.Missing),
	}), "kitchen.cooked")
	return result, nil
}

// PossibleRecipes lists the user's recipes that stock covers for at least one
// portion, most portions first.
func (s *service) PossibleRecipes(ctx context.Context, userID uuid.UUID) ([]PossibleRecipe, error) {
	recipes, err := s.recipes.ListRecipesByOwner(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recipes")
	}
	snapshot, err := s.stock.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := []PossibleRecipe{}
	for i := range recipes {
		recipe := &recipes[i]
		ratio, ok := coverage(recipe, snapshot)
		if !ok {
			continue
		}
		base := recipe.BasePortions
		if base <= 0 {
			base = models.DefaultBasePortions
		}
		portions := ratio.Mul(decimal.NewFromInt(int64(base))).Floor().IntPart()
		if portions < 1 {
			continue
		}
		out = append(out, PossibleRecipe{
			RecipeID: recipe.ID,
			Name:     recipe.Name,
			Portions: int(portions),
			Ratio:    ratio,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Portions > out[j].Portions })
	return out, nil
}

// coverage returns how many times stock covers the recipe at its base yield.
// A missing, empty or incomparable line gives zero; a recipe without lines
// is not reported at all.
func coverage(recipe *models.Recipe, snapshot map[uuid.UUID]*models.StockEntry) (decimal.Decimal, bool) {
	var (
		ratio decimal.Decimal
		seen  bool
	)
	for _, line := range recipe.Lines {
		entry := snapshot[line.IngredientID]
		if entry == nil || !entry.Quantity.IsPositive() {
			return decimal.Zero, true
		}
		have, haveUnit, _ := units.Normalize(entry.Quantity, entry.Unit, line.Ingredient)
		need, needUnit, _ := units.Normalize(line.Quantity, line.Unit, line.Ingredient)
		if haveUnit != needUnit {
			return decimal.Zero, true
		}
		if !need.IsPositive() {
			continue
		}
		r := have.Div(need)
		if !seen || r.LessThan(ratio) {
			ratio = r
			seen = true
		}
	}
	return ratio, seen
}

func ingredientName(ing *models.Ingredient) string {
	if ing == nil {
		return ""
	}
	return ing.Name
}
