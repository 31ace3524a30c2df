package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/repo"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
)

// Repository persists inventory records.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts the record and its lines. Line ingredients are references
// only and are never written.
func (r *Repository) Create(ctx context.Context, record *models.InventoryRecord) error {
	ings := make([]*models.Ingredient, len(record.Lines))
	for i := range record.Lines {
		ings[i] = record.Lines[i].Ingredient
		record.Lines[i].Ingredient = nil
	}
	err := r.DB(ctx).Create(record).Error
	for i := range record.Lines {
		record.Lines[i].Ingredient = ings[i]
	}
	return err
}

func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := r.DB(ctx).
		Preload("Lines").
		Preload("Lines.Ingredient").
		Where("id = ? AND user_id = ?", id, userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByUser returns the user's records without lines, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.DB(ctx).
		Scopes(repo.ScopeUser("user_id", userID)).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a user's record and its lines.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	db := r.DB(ctx)
	var record models.InventoryRecord
	if err := db.Select("id").Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		return err
	}
	if err := db.Where("record_id = ?", record.ID).Delete(&models.InventoryRecordLine{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", record.ID).Delete(&models.InventoryRecord{}).Error
}
