package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
)

// ShoppingList is a user's list progressing draft → validated → shopping → completed.
type ShoppingList struct {
	ID          uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	MenuID      *uuid.UUID               `gorm:"column:menu_id;type:uuid"`
	Name        string                   `gorm:"column:name;not null"`
	Status      enums.ShoppingListStatus `gorm:"column:status;not null;default:'draft'"`
	Items       []ShoppingListItem       `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	CompletedAt *time.Time               `gorm:"column:completed_at"`
	CreatedAt   time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *ShoppingList) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// ShoppingListItem keeps a copy of the ingredient name rather than a key so
// old lists stay readable after catalog edits.
type ShoppingListItem struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ListID            uuid.UUID           `gorm:"column:list_id;type:uuid;not null;index"`
	Position          int                 `gorm:"column:position;not null;default:0"`
	IngredientName    string              `gorm:"column:ingredient_name;not null"`
	Quantity          decimal.Decimal     `gorm:"column:quantity;type:numeric(14,3);not null"`
	QuantityInStock   decimal.NullDecimal `gorm:"column:quantity_in_stock;type:numeric(14,3)"`
	QuantityPurchased decimal.NullDecimal `gorm:"column:quantity_purchased;type:numeric(14,3)"`
	Unit              string              `gorm:"column:unit;not null;default:''"`
	Category          string              `gorm:"column:category;not null;default:''"`
	Purchased         bool                `gorm:"column:purchased;not null;default:false"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *ShoppingListItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// CreditQuantity is what completing the list adds to stock for this item.
func (i *ShoppingListItem) CreditQuantity() decimal.Decimal {
	if i.QuantityPurchased.Valid {
		return i.QuantityPurchased.Decimal
	}
	return i.Quantity
}
