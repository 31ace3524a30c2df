package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryRecord is the persisted result of one physical stock count.
type InventoryRecord struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Notes         string                `gorm:"column:notes;not null;default:''"`
	SurplusCount  int                   `gorm:"column:surplus_count;not null;default:0"`
	ShortageCount int                   `gorm:"column:shortage_count;not null;default:0"`
	UpdatedCount  int                   `gorm:"column:updated_count;not null;default:0"`
	Lines         []InventoryRecordLine `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (r *InventoryRecord) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

type InventoryRecordLine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	RecordID     uuid.UUID       `gorm:"column:record_id;type:uuid;not null;index"`
	IngredientID uuid.UUID       `gorm:"column:ingredient_id;type:uuid;not null"`
	Ingredient   *Ingredient     `gorm:"foreignKey:IngredientID"`
	Theoretical  decimal.Decimal `gorm:"column:theoretical;type:numeric(14,3);not null"`
	Counted      decimal.Decimal `gorm:"column:counted;type:numeric(14,3);not null"`
	Variance     decimal.Decimal `gorm:"column:variance;type:numeric(14,3);not null"`
	Unit         string          `gorm:"column:unit;not null;default:''"`
}

func (l *InventoryRecordLine) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
