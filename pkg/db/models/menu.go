package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
)

const (
	DefaultHeadcount = 2
	DaysPerMenu      = 7
)

// Menu is a week of meals cooked for Headcount people.
type Menu struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index"`
	Name        string           `gorm:"column:name;not null"`
	StartDate   time.Time        `gorm:"column:start_date;type:date;not null"`
	Headcount   int              `gorm:"column:headcount;not null;default:2"`
	Assignments []MenuAssignment `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Menu) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// MenuAssignment places at most one recipe on a day/slot pair.
type MenuAssignment struct {
	ID       uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	MenuID   uuid.UUID      `gorm:"column:menu_id;type:uuid;not null;uniqueIndex:idx_menu_assignments_day_slot"`
	DayIndex int            `gorm:"column:day_index;not null;uniqueIndex:idx_menu_assignments_day_slot"`
	Slot     enums.MealSlot `gorm:"column:slot;not null;uniqueIndex:idx_menu_assignments_day_slot"`
	RecipeID *uuid.UUID     `gorm:"column:recipe_id;type:uuid"`
	Recipe   *Recipe        `gorm:"foreignKey:RecipeID;constraint:OnDelete:SET NULL"`
}

func (a *MenuAssignment) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
