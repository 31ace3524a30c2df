package stock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/mealplanner-backend/internal/repo"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
)

// Repository persists stock entries.
type Repository struct {
	repo.Base
}

// NewRepository constructs a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

func (r *Repository) FindByUserAndIngredient(ctx context.Context, userID, ingredientID uuid.UUID) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := r.DB(ctx).
		Preload("Ingredient").
		Where("user_id = ? AND ingredient_id = ?", userID, ingredientID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := r.DB(ctx).
		Preload("Ingredient").
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns every entry of the user, ingredients preloaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	err := r.DB(ctx).
		Preload("Ingredient").
		Scopes(repo.ScopeUser("user_id", userID)).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// MapByIngredient returns the user's entries keyed by ingredient id.
func (r *Repository) MapByIngredient(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]*models.StockEntry, error) {
	entries, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*models.StockEntry, len(entries))
	for i := range entries {
		out[entries[i].IngredientID] = &entries[i]
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, entry *models.StockEntry) error {
	return r.DB(ctx).Omit(clause.Associations).Create(entry).Error
}

// UpdateQuantity writes quantity and unit for an existing entry.
func (r *Repository) UpdateQuantity(ctx context.Context, entry *models.StockEntry) error {
	return r.DB(ctx).
		Model(&models.StockEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"quantity": entry.Quantity,
			"unit":     entry.Unit,
		}).Error
}

func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.StockEntry{})
	return res.RowsAffected, res.Error
}
