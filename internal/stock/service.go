// Package stock keeps each user's pantry: one entry per ingredient, never
// negative, deleted once a debit empties it.
package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/units"
	"github.com/angelmondragon/mealplanner-backend/pkg/db"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
)

// UnassignedLocation labels entries whose ingredient has no storage location.
const UnassignedLocation = "Non rangé"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ingredientLoader interface {
	FindIngredientByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
}

// Service exposes the stock ledger.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Get(ctx context.Context, userID, ingredientID uuid.UUID) (*models.StockEntry, error)
	Snapshot(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]*models.StockEntry, error)
	Credit(ctx context.Context, userID uuid.UUID, ing *models.Ingredient, q decimal.Decimal, unit string) (*models.StockEntry, error)
	Debit(ctx context.Context, userID, ingredientID uuid.UUID, q decimal.Decimal) (DebitResult, error)
	Overwrite(ctx context.Context, userID uuid.UUID, ing *models.Ingredient, q decimal.Decimal, unit string) (*models.StockEntry, error)
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (*EntryView, error)
	Adjust(ctx context.Context, userID, entryID uuid.UUID, action enums.StockAdjustAction, q decimal.Decimal) (*EntryView, error)
	List(ctx context.Context, userID uuid.UUID) ([]LocationGroup, error)
	CountLow(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, userID, entryID uuid.UUID) error
}

type service struct {
	repo    *Repository
	tx      txRunner
	catalog ingredientLoader
}

// NewService builds a stock ledger backed by the provided stack.
func NewService(repo *Repository, tx txRunner, catalog ingredientLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("ingredient loader required")
	}
	return &service{repo: repo, tx: tx, catalog: catalog}, nil
}

// WithTx returns a ledger whose reads and writes go through tx.
func (s *service) WithTx(tx *gorm.DB) Service {
	if tx == nil {
		return s
	}
	return &service{repo: s.repo.WithTx(tx), tx: s.tx, catalog: s.catalog}
}

// AddInput is a manual stock addition.
type AddInput struct {
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
	Unit         string
}

// DebitResult reports what a debit actually removed.
type DebitResult struct {
	Removed   decimal.Decimal
	Remaining decimal.Decimal
	Unit      string
	Deleted   bool
	Found     bool
}

// EntryView is a stock entry prepared for display.
type EntryView struct {
	ID              uuid.UUID        `json:"id"`
	IngredientID    uuid.UUID        `json:"ingredient_id"`
	IngredientName  string           `json:"ingredient_name"`
	Category        string           `json:"category"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Unit            string           `json:"unit"`
	DisplayQuantity decimal.Decimal  `json:"display_quantity"`
	DisplayUnit     string           `json:"display_unit"`
	DetailGrams     *decimal.Decimal `json:"detail_grams,omitempty"`
	Low             bool             `json:"low"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// LocationGroup gathers entries stored in the same place.
type LocationGroup struct {
	Location string      `json:"location"`
	Entries  []EntryView `json:"entries"`
}

// Get returns the user's entry for the ingredient, or nil when none exists.
func (s *service) Get(ctx context.Context, userID, ingredientID uuid.UUID) (*models.StockEntry, error) {
	entry, err := s.repo.FindByUserAndIngredient(ctx, userID, ingredientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock entry")
	}
	return entry, nil
}

func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]*models.StockEntry, error) {
	entries, err := s.repo.MapByIngredient(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
	}
	return entries, nil
}

// Credit adds q to the user's entry, creating it when absent. The entry takes
// the credited unit; a comparable existing quantity is converted first.
func (s *service) Credit(ctx context.Context, userID uuid.UUID, ing *models.Ingredient, q decimal.Decimal, unit string) (*models.StockEntry, error) {
	if ing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient is required")
	}
	if q.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	unit = strings.TrimSpace(unit)

	entry, err := s.Get(ctx, userID, ing.ID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = &models.StockEntry{
			UserID:       userID,
			IngredientID: ing.ID,
			Quantity:     q,
			Unit:         unit,
		}
		if err := s.create(ctx, entry); err != nil {
			return nil, err
		}
		entry.Ingredient = ing
		return entry, nil
	}

	current := entry.Quantity
	if converted, ok := units.Convert(entry.Quantity, entry.Unit, unit, ing); ok {
		current = converted
	}
	entry.Quantity = current.Add(q)
	entry.Unit = unit
	if err := s.repo.UpdateQuantity(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock entry")
	}
	return entry, nil
}

// create inserts a new entry. A concurrent insert for the same ingredient
// trips the (user, ingredient) unique index and surfaces as a conflict.
func (s *service) create(ctx context.Context, entry *models.StockEntry) error {
	err := s.repo.Create(ctx, entry)
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "stock entry changed concurrently, retry")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock entry")
	}
	return nil
}

// Debit removes up to q (in the entry's unit). An entry brought to zero is
// deleted; a missing entry is not an error.
func (s *service) Debit(ctx context.Context, userID, ingredientID uuid.UUID, q decimal.Decimal) (DebitResult, error) {
	if q.IsNegative() {
		return DebitResult{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	entry, err := s.Get(ctx, userID, ingredientID)
	if err != nil || entry == nil {
		return DebitResult{}, err
	}

	result := DebitResult{Found: true, Unit: entry.Unit}
	remaining := entry.Quantity.Sub(q)
	if !remaining.IsPositive() {
		result.Removed = entry.Quantity
		result.Deleted = true
		if _, err := s.repo.Delete(ctx, userID, entry.ID); err != nil {
			return DebitResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stock entry")
		}
		return result, nil
	}

	entry.Quantity = remaining
	if err := s.repo.UpdateQuantity(ctx, entry); err != nil {
		return DebitResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock entry")
	}
	result.Removed = q
	result.Remaining = remaining
	return result, nil
}

// Overwrite sets the user's entry to exactly q, creating it when absent.
func (s *service) Overwrite(ctx context.Context, userID uuid.UUID, ing *models.Ingredient, q decimal.Decimal, unit string) (*models.StockEntry, error) {
	if ing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient is required")
	}
	if q.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	entry, err := s.Get(ctx, userID, ing.ID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = &models.StockEntry{UserID: userID, IngredientID: ing.ID, Quantity: q, Unit: unit}
		if err := s.create(ctx, entry); err != nil {
			return nil, err
		}
		entry.Ingredient = ing
		return entry, nil
	}
	entry.Quantity = q
	if strings.TrimSpace(unit) != "" {
		entry.Unit = unit
	}
	if err := s.repo.UpdateQuantity(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock entry")
	}
	return entry, nil
}

// Add credits stock from a manual entry, defaulting the unit to the
// ingredient's base unit.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (*EntryView, error) {
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	ing, err := s.catalog.FindIngredientByID(ctx, input.IngredientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = ing.BaseUnit
	}

	var entry *models.StockEntry
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var cerr error
		entry, cerr = s.WithTx(tx).Credit(ctx, userID, ing, input.Quantity, unit)
		return cerr
	}); err != nil {
		return nil, err
	}
	entry.Ingredient = ing
	view := toView(entry)
	return &view, nil
}

// Adjust applies a manual correction. Decrease and set clamp at zero and keep
// the entry.
func (s *service) Adjust(ctx context.Context, userID, entryID uuid.UUID, action enums.StockAdjustAction, q decimal.Decimal) (*EntryView, error) {
	if !action.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown action %q", action)
	}
	if q.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	var entry *models.StockEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		found, err := r.FindByID(ctx, userID, entryID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock entry")
		}

		switch action {
		case enums.StockAdjustIncrease:
			found.Quantity = found.Quantity.Add(q)
		case enums.StockAdjustDecrease:
			found.Quantity = decimal.Max(decimal.Zero, found.Quantity.Sub(q))
		case enums.StockAdjustSet:
			found.Quantity = q
		}
		if err := r.UpdateQuantity(ctx, found); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock entry")
		}
		entry = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := toView(entry)
	return &view, nil
}

// List returns the user's stock grouped by storage location, locations and
// ingredients in alphabetical order with unassigned entries last.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]LocationGroup, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock")
	}

	byLocation := map[string][]EntryView{}
	for i := range entries {
		loc := entries[i].Ingredient.Location()
		if loc == "" {
			loc = UnassignedLocation
		}
		byLocation[loc] = append(byLocation[loc], toView(&entries[i]))
	}

	locations := make([]string, 0, len(byLocation))
	for loc := range byLocation {
		locations = append(locations, loc)
	}
	sort.Slice(locations, func(i, j int) bool {
		if (locations[i] == UnassignedLocation) != (locations[j] == UnassignedLocation) {
			return locations[j] == UnassignedLocation
		}
		return locations[i] < locations[j]
	})

	groups := make([]LocationGroup, 0, len(locations))
	for _, loc := range locations {
		views := byLocation[loc]
		sort.Slice(views, func(i, j int) bool { return views[i].IngredientName < views[j].IngredientName })
		groups = append(groups, LocationGroup{Location: loc, Entries: views})
	}
	return groups, nil
}

func (s *service) CountLow(ctx context.Context, userID uuid.UUID) (int, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock")
	}
	count := 0
	for i := range entries {
		if IsLow(&entries[i], entries[i].Ingredient) {
			count++
		}
	}
	return count, nil
}

func (s *service) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	n, err := s.repo.Delete(ctx, userID, entryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stock entry")
	}
	if n == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
	}
	return nil
}

func toView(entry *models.StockEntry) EntryView {
	view := EntryView{
		ID:           entry.ID,
		IngredientID: entry.IngredientID,
		Quantity:     entry.Quantity,
		Unit:         entry.Unit,
		Low:          IsLow(entry, entry.Ingredient),
		UpdatedAt:    entry.UpdatedAt,
	}
	if entry.Ingredient != nil {
		view.IngredientName = entry.Ingredient.Name
		view.Category = entry.Ingredient.Category.String()
	}
	view.DisplayQuantity, view.DisplayUnit, view.DetailGrams = units.DenormalizeForDisplay(entry.Quantity, entry.Unit, entry.Ingredient)
	return view
}
