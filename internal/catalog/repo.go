// Package catalog reads ingredients, recipes and menus. Their editing lives
// outside this service; the shopping and stock flows only consume them.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/repo"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
)

// Repository loads catalog entities through GORM.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

func (r *Repository) FindIngredientByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := r.DB(ctx).Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// FindIngredientByName resolves a denormalized ingredient name. A name that
// no longer matches the catalog yields (nil, nil).
func (r *Repository) FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}
	var ing models.Ingredient
	err := r.DB(ctx).Where("name = ?", trimmed).First(&ing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// FindIngredientsByNames returns the ingredients keyed by name; missing
// names are simply absent from the map.
func (r *Repository) FindIngredientsByNames(ctx context.Context, names []string) (map[string]*models.Ingredient, error) {
	out := make(map[string]*models.Ingredient, len(names))
	clean := make([]string, 0, len(names))
	for _, n := range names {
		if t := strings.TrimSpace(n); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return out, nil
	}
	var rows []models.Ingredient
	if err := r.DB(ctx).Where("name IN ?", clean).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].Name] = &rows[i]
	}
	return out, nil
}

func (r *Repository) FindIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Ingredient, error) {
	out := make(map[uuid.UUID]*models.Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Ingredient
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

// GetRecipe loads a recipe owned by ownerID with its lines and steps in order.
func (r *Repository) GetRecipe(ctx context.Context, ownerID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.DB(ctx).
		Preload("Lines.Ingredient").
		Preload("Steps").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	sortRecipe(&recipe)
	return &recipe, nil
}

func (r *Repository) ListRecipesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.DB(ctx).
		Preload("Lines.Ingredient").
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		sortRecipe(&recipes[i])
	}
	return recipes, nil
}

// GetMenu loads a menu with every assigned recipe and its ingredients.
// Assignments come back ordered by day, then breakfast, lunch, dinner.
func (r *Repository) GetMenu(ctx context.Context, ownerID, id uuid.UUID) (*models.Menu, error) {
	var menu models.Menu
	err := r.DB(ctx).
		Preload("Assignments.Recipe.Lines.Ingredient").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	SortAssignments(menu.Assignments)
	for i := range menu.Assignments {
		if menu.Assignments[i].Recipe != nil {
			sortRecipe(menu.Assignments[i].Recipe)
		}
	}
	return &menu, nil
}

// SortAssignments orders assignments by day index then meal slot.
func SortAssignments(assignments []models.MenuAssignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.DayIndex != b.DayIndex {
			return a.DayIndex < b.DayIndex
		}
		return a.Slot.Order() < b.Slot.Order()
	})
}

func sortRecipe(recipe *models.Recipe) {
	sort.SliceStable(recipe.Lines, func(i, j int) bool { return recipe.Lines[i].Position < recipe.Lines[j].Position })
	sort.SliceStable(recipe.Steps, func(i, j int) bool { return recipe.Steps[i].Position < recipe.Steps[j].Position })
}
