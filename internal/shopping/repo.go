package shopping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/repo"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
)

// Repository persists shopping lists and their items.
type Repository struct {
	repo.Base
}

// NewRepository constructs a shopping list repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts the list together with its items.
func (r *Repository) Create(ctx context.Context, list *models.ShoppingList) error {
	if list.Status == "" {
		list.Status = enums.ShoppingListStatusDraft
	}
	return r.DB(ctx).Create(list).Error
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID loads a user's list with items in position order.
func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := r.DB(ctx).
		Preload("Items", orderedItems).
		Where("id = ? AND user_id = ?", id, userID).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByUser returns the user's lists, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	err := r.DB(ctx).
		Preload("Items", orderedItems).
		Scopes(repo.ScopeUser("user_id", userID)).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// TransitionStatus moves the list to `to` only while its status is one of
// `from`. It reports false when no row matched, meaning another request
// changed the status first.
func (r *Repository) TransitionStatus(ctx context.Context, userID, id uuid.UUID, from []enums.ShoppingListStatus, to enums.ShoppingListStatus, completedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": to}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	res := r.DB(ctx).
		Model(&models.ShoppingList{}).
		Where("id = ? AND user_id = ? AND status IN ?", id, userID, enums.ShoppingListStatusStrings(from...)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SaveItemState writes the mutable columns of an item.
func (r *Repository) SaveItemState(ctx context.Context, item *models.ShoppingListItem) error {
	return r.DB(ctx).
		Model(&models.ShoppingListItem{}).
		Where("id = ? AND list_id = ?", item.ID, item.ListID).
		Updates(map[string]any{
			"quantity_in_stock":  item.QuantityInStock,
			"quantity_purchased": item.QuantityPurchased,
			"purchased":          item.Purchased,
		}).Error
}

// DeleteItems removes the given items of a list and returns how many went.
func (r *Repository) DeleteItems(ctx context.Context, listID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	res := r.DB(ctx).
		Where("list_id = ? AND id IN ?", listID, itemIDs).
		Delete(&models.ShoppingListItem{})
	return res.RowsAffected, res.Error
}

// Delete removes a user's list and its items.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	db := r.DB(ctx)
	var list models.ShoppingList
	if err := db.Select("id").Where("id = ? AND user_id = ?", id, userID).First(&list).Error; err != nil {
		return 0, err
	}
	if err := db.Where("list_id = ?", list.ID).Delete(&models.ShoppingListItem{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", list.ID).Delete(&models.ShoppingList{})
	return res.RowsAffected, res.Error
}
