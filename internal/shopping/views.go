package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mealplanner-backend/internal/units"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
)

// ItemView is a shopping list item with display units resolved.
type ItemView struct {
	ID                uuid.UUID        `json:"id"`
	Position          int              `json:"position"`
	IngredientName    string           `json:"ingredient_name"`
	Resolved          bool             `json:"resolved"`
	Quantity          decimal.Decimal  `json:"quantity"`
	QuantityInStock   *decimal.Decimal `json:"quantity_in_stock"`
	QuantityPurchased *decimal.Decimal `json:"quantity_purchased"`
	Unit              string           `json:"unit"`
	DisplayQuantity   decimal.Decimal  `json:"display_quantity"`
	DisplayUnit       string           `json:"display_unit"`
	DetailGrams       *decimal.Decimal `json:"detail_grams,omitempty"`
	Category          string           `json:"category"`
	Purchased         bool             `json:"purchased"`
	OutOfSeason       bool             `json:"out_of_season,omitempty"`
}

// ListView is a shopping list with its items.
type ListView struct {
	ID             uuid.UUID                `json:"id"`
	MenuID         *uuid.UUID               `json:"menu_id,omitempty"`
	Name           string                   `json:"name"`
	Status         enums.ShoppingListStatus `json:"status"`
	ItemCount      int                      `json:"item_count"`
	PurchasedCount int                      `json:"purchased_count"`
	Items          []ItemView               `json:"items"`
	CompletedAt    *time.Time               `json:"completed_at,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// Summary is the list row returned when listing a user's lists.
type Summary struct {
	ID             uuid.UUID                `json:"id"`
	Name           string                   `json:"name"`
	Status         enums.ShoppingListStatus `json:"status"`
	ItemCount      int                      `json:"item_count"`
	PurchasedCount int                      `json:"purchased_count"`
	CreatedAt      time.Time                `json:"created_at"`
}

// CompletionResult reports what completing a list credited to stock.
type CompletionResult struct {
	List     *ListView `json:"list"`
	Credited int       `json:"credited"`
	Skipped  []string  `json:"skipped"`
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toItemView(item *models.ShoppingListItem, ing *models.Ingredient, month time.Month) ItemView {
	v := ItemView{
		ID:                item.ID,
		Position:          item.Position,
		IngredientName:    item.IngredientName,
		Resolved:          ing != nil,
		Quantity:          item.Quantity,
		QuantityInStock:   nullable(item.QuantityInStock),
		QuantityPurchased: nullable(item.QuantityPurchased),
		Unit:              item.Unit,
		Category:          item.Category,
		Purchased:         item.Purchased,
		OutOfSeason:       !ing.InSeason(month),
	}
	v.DisplayQuantity, v.DisplayUnit, v.DetailGrams = units.DenormalizeForDisplay(item.Quantity, item.Unit, ing)
	return v
}

func toListView(list *models.ShoppingList, ings map[string]*models.Ingredient, month time.Month) *ListView {
	view := &ListView{
		ID:          list.ID,
		MenuID:      list.MenuID,
		Name:        list.Name,
		Status:      list.Status,
		ItemCount:   len(list.Items),
		Items:       make([]ItemView, 0, len(list.Items)),
		CompletedAt: list.CompletedAt,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
	}
	for i := range list.Items {
		item := &list.Items[i]
		if item.Purchased {
			view.PurchasedCount++
		}
		view.Items = append(view.Items, toItemView(item, ings[item.IngredientName], month))
	}
	return view
}

func toSummary(list *models.ShoppingList) Summary {
	s := Summary{
		ID:        list.ID,
		Name:      list.Name,
		Status:    list.Status,
		ItemCount: len(list.Items),
		CreatedAt: list.CreatedAt,
	}
	for i := range list.Items {
		if list.Items[i].Purchased {
			s.PurchasedCount++
		}
	}
	return s
}
