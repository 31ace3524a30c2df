package enums

import (
	"fmt"
	"strings"
)

// StockAdjustAction names a manual correction applied to a stock entry.
type StockAdjustAction string

const (
	StockAdjustIncrease StockAdjustAction = "increase"
	StockAdjustDecrease StockAdjustAction = "decrease"
	StockAdjustSet      StockAdjustAction = "set"
)

var validStockAdjustActions = []StockAdjustAction{
	StockAdjustIncrease,
	StockAdjustDecrease,
	StockAdjustSet,
}

// String implements fmt.Stringer.
func (a StockAdjustAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known StockAdjustAction.
func (a StockAdjustAction) IsValid() bool {
	for _, candidate := range validStockAdjustActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseStockAdjustAction converts raw input into a StockAdjustAction.
func ParseStockAdjustAction(value string) (StockAdjustAction, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validStockAdjustActions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock adjust action %q", value)
}
