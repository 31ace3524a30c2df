package models

import "github.com/google/uuid"

// assignID fills a zero primary key so inserts behave the same on postgres
// and sqlite (which has no gen_random_uuid default).
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&Ingredient{},
		&Recipe{},
		&RecipeLine{},
		&RecipeStep{},
		&Menu{},
		&MenuAssignment{},
		&StockEntry{},
		&ShoppingList{},
		&ShoppingListItem{},
		&InventoryRecord{},
		&InventoryRecordLine{},
	}
}
