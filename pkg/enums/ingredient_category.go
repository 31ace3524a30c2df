package enums

import (
	"fmt"
	"strings"
)

// IngredientCategory is the store-aisle grouping of an ingredient.
type IngredientCategory string

const (
	CategoryProduce    IngredientCategory = "Fruits & Légumes"
	CategoryMeatFish   IngredientCategory = "Viandes & Poissons"
	CategoryDairy      IngredientCategory = "Produits laitiers"
	CategorySavoury    IngredientCategory = "Épicerie salée"
	CategorySweet      IngredientCategory = "Épicerie sucrée"
	CategoryFrozen     IngredientCategory = "Surgelés"
	CategoryDrinks     IngredientCategory = "Boissons"
	CategoryBakery     IngredientCategory = "Pain & Viennoiseries"
	CategoryCondiments IngredientCategory = "Condiments & Sauces"
	CategoryHerbs      IngredientCategory = "Herbes & Épices"
	CategoryCanned     IngredientCategory = "Conserves"
	CategoryPastaRice  IngredientCategory = "Pâtes & Riz"
	CategoryOils       IngredientCategory = "Huiles & Vinaigres"
	CategoryOther      IngredientCategory = "Autre"
)

var validIngredientCategories = []IngredientCategory{
	CategoryProduce,
	CategoryMeatFish,
	CategoryDairy,
	CategorySavoury,
	CategorySweet,
	CategoryFrozen,
	CategoryDrinks,
	CategoryBakery,
	CategoryCondiments,
	CategoryHerbs,
	CategoryCanned,
	CategoryPastaRice,
	CategoryOils,
	CategoryOther,
}

// String implements fmt.Stringer.
func (c IngredientCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known IngredientCategory.
func (c IngredientCategory) IsValid() bool {
	for _, candidate := range validIngredientCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseIngredientCategory converts raw input into an IngredientCategory.
func ParseIngredientCategory(value string) (IngredientCategory, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validIngredientCategories {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient category %q", value)
}
