package enums

import "fmt"

// ShoppingListStatus tracks where a shopping list sits in its workflow.
type ShoppingListStatus string

const (
	ShoppingListStatusDraft     ShoppingListStatus = "draft"
	ShoppingListStatusValidated ShoppingListStatus = "validated"
	ShoppingListStatusShopping  ShoppingListStatus = "shopping"
	ShoppingListStatusCompleted ShoppingListStatus = "completed"
)

var validShoppingListStatuses = []ShoppingListStatus{
	ShoppingListStatusDraft,
	ShoppingListStatusValidated,
	ShoppingListStatusShopping,
	ShoppingListStatusCompleted,
}

// String implements fmt.Stringer.
func (s ShoppingListStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShoppingListStatus.
func (s ShoppingListStatus) IsValid() bool {
	for _, candidate := range validShoppingListStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShoppingListStatus converts raw input into a ShoppingListStatus.
func ParseShoppingListStatus(value string) (ShoppingListStatus, error) {
	for _, candidate := range validShoppingListStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shopping list status %q", value)
}

// ShoppingListStatusStrings converts statuses for use in SQL IN clauses.
func ShoppingListStatusStrings(statuses ...ShoppingListStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
