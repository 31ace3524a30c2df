package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockEntry is the quantity of one ingredient a user has on hand.
type StockEntry struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_stock_entries_user_ingredient"`
	IngredientID uuid.UUID       `gorm:"column:ingredient_id;type:uuid;not null;uniqueIndex:idx_stock_entries_user_ingredient"`
	Ingredient   *Ingredient     `gorm:"foreignKey:IngredientID"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(14,3);not null;default:0"`
	Unit         string          `gorm:"column:unit;not null;default:''"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *StockEntry) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
