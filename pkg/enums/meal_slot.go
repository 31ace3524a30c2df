package enums

// MealSlot is one of the three meals a menu day can hold.
type MealSlot string

const (
	MealSlotBreakfast MealSlot = "breakfast"
	MealSlotLunch     MealSlot = "lunch"
	MealSlotDinner    MealSlot = "dinner"
)

// validMealSlots is ordered the way a day is eaten.
var validMealSlots = []MealSlot{
	MealSlotBreakfast,
	MealSlotLunch,
	MealSlotDinner,
}

// String implements fmt.Stringer.
func (m MealSlot) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MealSlot.
func (m MealSlot) IsValid() bool {
	return m.Order() >= 0
}

// Order returns the slot's position within a day, or -1 when unknown.
func (m MealSlot) Order() int {
	for i, candidate := range validMealSlots {
		if candidate == m {
			return i
		}
	}
	return -1
}
