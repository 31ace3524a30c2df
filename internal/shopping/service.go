// Package shopping runs the shopping list workflow: lists are created from a
// menu's demand or by hand, annotated with stock, bought, and finally
// completed, which credits purchased items back into stock.
package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/demand"
	"github.com/angelmondragon/mealplanner-backend/internal/stock"
	"github.com/angelmondragon/mealplanner-backend/internal/units"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
	"github.com/angelmondragon/mealplanner-backend/pkg/metrics"
	"github.com/angelmondragon/mealplanner-backend/pkg/redis"
)

const completionLockScope = "shopping_complete"

var (
	removableStatuses   = []enums.ShoppingListStatus{enums.ShoppingListStatusDraft, enums.ShoppingListStatusValidated}
	validatableStatuses = []enums.ShoppingListStatus{enums.ShoppingListStatusDraft, enums.ShoppingListStatusValidated}
	completableStatuses = []enums.ShoppingListStatus{enums.ShoppingListStatusShopping, enums.ShoppingListStatusValidated}
	editableStatuses    = []enums.ShoppingListStatus{enums.ShoppingListStatusDraft, enums.ShoppingListStatusValidated, enums.ShoppingListStatusShopping}
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type demandSource interface {
	ForMenu(ctx context.Context, userID, menuID uuid.UUID) (*models.Menu, *demand.Demand, error)
}

type ingredientResolver interface {
	FindIngredientByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	FindIngredientsByNames(ctx context.Context, names []string) (map[string]*models.Ingredient, error)
}

type lockProvider interface {
	NewLock(scope, id string) (redis.Lock, error)
}

// Service exposes the shopping list workflow.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*ListView, error)
	Get(ctx context.Context, userID, listID uuid.UUID) (*ListView, error)
	List(ctx context.Context, userID uuid.UUID) ([]Summary, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error
	Reconcile(ctx context.Context, userID, listID uuid.UUID) (*ListView, error)
	RemoveItemsInStock(ctx context.Context, userID, listID uuid.UUID) (int, error)
	Validate(ctx context.Context, userID, listID uuid.UUID) (*ListView, error)
	BeginShopping(ctx context.Context, userID, listID uuid.UUID) (*ListView, error)
	UpdatePurchasedQuantity(ctx context.Context, userID, listID, itemID uuid.UUID, raw string) (*ItemView, error)
	TogglePurchased(ctx context.Context, userID, listID, itemID uuid.UUID, purchased bool) (*ItemView, error)
	RemoveItem(ctx context.Context, userID, listID, itemID uuid.UUID) error
	Complete(ctx context.Context, userID, listID uuid.UUID) (*CompletionResult, error)
}

// ServiceParams configure the shopping service. Locker and Metrics are optional.
type ServiceParams struct {
	Repo    *Repository
	Tx      txRunner
	Demand  demandSource
	Catalog ingredientResolver
	Stock   stock.Service
	Locker  lockProvider
	Metrics *metrics.ShoppingMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	tx      txRunner
	demand  demandSource
	catalog ingredientResolver
	stock   stock.Service
	locker  lockProvider
	metrics *metrics.ShoppingMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the shopping service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("shopping repository required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Demand == nil:
		return nil, fmt.Errorf("demand source required")
	case params.Catalog == nil:
		return nil, fmt.Errorf("ingredient resolver required")
	case params.Stock == nil:
		return nil, fmt.Errorf("stock ledger required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		demand:  params.Demand,
		catalog: params.Catalog,
		stock:   params.Stock,
		locker:  params.Locker,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     time.Now,
	}, nil
}

// CreateInput builds a list from a menu, from explicit items, or both.
type CreateInput struct {
	MenuID *uuid.UUID
	Name   string
	Items  []ItemInput
}

// ItemInput is a manually added item. IngredientID wins over Name.
type ItemInput struct {
	IngredientID *uuid.UUID
	Name         string
	Quantity     decimal.Decimal
	Unit         string
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*ListView, error) {
	name := strings.TrimSpace(input.Name)
	list := &models.ShoppingList{
		UserID: userID,
		MenuID: input.MenuID,
		Status: enums.ShoppingListStatusDraft,
	}

	if input.MenuID != nil {
		menu, need, err := s.demand.ForMenu(ctx, userID, *input.MenuID)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = menu.Name
		}
		for _, line := range need.Lines() {
			item := models.ShoppingListItem{
				Position: len(list.Items),
				Quantity: line.Quantity,
				Unit:     line.Unit,
			}
			if line.Ingredient != nil {
				item.IngredientName = line.Ingredient.Name
				item.Category = line.Ingredient.Category.String()
			}
			list.Items = append(list.Items, item)
		}
	} else if name == "" {
		return nil, pkgerrors.Validation("invalid shopping list", pkgerrors.FieldErrors{"name": "name or menu_id is required"})
	}
	list.Name = name

	manual, err := s.manualItems(ctx, input.Items, len(list.Items))
	if err != nil {
		return nil, err
	}
	list.Items = append(list.Items, manual...)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, list)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shopping list")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"shopping_list_id": list.ID.String(),
		"item_count":       len(list.Items),
	}), "shopping.created")
	return s.Get(ctx, userID, list.ID)
}

func (s *service) manualItems(ctx context.Context, inputs []ItemInput, offset int) ([]models.ShoppingListItem, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	fields := pkgerrors.FieldErrors{}
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.IngredientID == nil {
			names = append(names, in.Name)
		}
	}
	byName, err := s.catalog.FindIngredientsByNames(ctx, names)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve ingredients")
	}

	items := make([]models.ShoppingListItem, 0, len(inputs))
	for i, in := range inputs {
		key := fmt.Sprintf("items[%d]", i)
		if !in.Quantity.IsPositive() {
			fields[key+".quantity"] = "must be greater than zero"
			continue
		}

		var ing *models.Ingredient
		name := strings.TrimSpace(in.Name)
		if in.IngredientID != nil {
			found, err := s.catalog.FindIngredientByID(ctx, *in.IngredientID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fields[key+".ingredient_id"] = "unknown ingredient"
				continue
			}
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve ingredient")
			}
			ing = found
			name = found.Name
		} else if name == "" {
			fields[key+".name"] = "name or ingredient_id is required"
			continue
		} else {
			ing = byName[name]
		}

		unit := strings.TrimSpace(in.Unit)
		if unit == "" && ing != nil {
			unit = ing.BaseUnit
		}
		q, base, _ := units.Normalize(in.Quantity, unit, ing)
		item := models.ShoppingListItem{
			Position:       offset + len(items),
			IngredientName: name,
			Quantity:       q,
			Unit:           base,
		}
		if ing != nil {
			item.Category = ing.Category.String()
		}
		items = append(items, item)
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("invalid shopping list items", fields)
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, userID, listID uuid.UUID) (*ListView, error) {
	list, err := s.load(ctx, s.repo, userID, listID)
	if err != nil {
		return nil, err
	}
	ings, err := s.resolve(ctx, list.Items)
	if err != nil {
		return nil, err
	}
	return toListView(list, ings, s.now().Month()), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	lists, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shopping lists")
	}
	out := make([]Summary, 0, len(lists))
	for i := range lists {
		out = append(out, toSummary(&lists[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Delete(ctx, userID, listID)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shopping list not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete shopping list")
	}
	return nil
}

// Reconcile records, for every item, how much of it stock already covers,
// expressed in the item's unit. Items whose ingredient no longer resolves,
// has no stock entry, or is stocked in an incomparable unit get zero.
func (s *service) Reconcile(ctx context.Context, userID, listID uuid.UUID) (*ListView, error) {
	list, err := s.load(ctx, s.repo, userID, listID)
	if err != nil {
		return nil, err
	}
	if list.Status != enums.ShoppingListStatusDraft {
		return nil, s.stateConflict("reconcile", list.Status, enums.ShoppingListStatusDraft)
	}
	ings, err := s.resolve(ctx, list.Items)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.stock.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		for i := range list.Items {
			item := &list.Items[i]
			item.QuantityInStock = decimal.NewNullDecimal(coveredByStock(item, ings, snapshot))
			if err := r.SaveItemState(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile shopping list")
	}
	return toListView(list, ings, s.now().Month()), nil
}

func coveredByStock(item *models.ShoppingListItem, ings map[string]*models.Ingredient, snapshot map[uuid.UUID]*models.StockEntry) decimal.Decimal {
	ing := ings[item.IngredientName]
	if ing == nil {
		return decimal.Zero
	}
	entry := snapshot[ing.ID]
	if entry == nil {
		return decimal.Zero
	}
	q, ok := units.Convert(entry.Quantity, entry.Unit, item.Unit, ing)
	if !ok {
		return decimal.Zero
	}
	return q
}

// RemoveItemsInStock deletes every reconciled item whose recorded stock
// covers the full needed quantity. Unreconciled items and items whose stock
// is kept in an incomparable unit always stay.
func (s *service) RemoveItemsInStock(ctx context.Context, userID, listID uuid.UUID) (int, error) {
	list, err := s.load(ctx, s.repo, userID, listID)
	if err != nil {
		return 0, err
	}
	if !statusIn(list.Status, removableStatuses) {
		return 0, s.stateConflict("remove_items_in_stock", list.Status, removableStatuses...)
	}
	ings, err := s.resolve(ctx, list.Items)
	if err != nil {
		return 0, err
	}
	snapshot, err := s.stock.Snapshot(ctx, userID)
	if err != nil {
		return 0, err
	}

	var ids []uuid.UUID
	for i := range list.Items {
		item := &list.Items[i]
		if !item.QuantityInStock.Valid {
			continue
		}
		ing := ings[item.IngredientName]
		if ing == nil {
			continue
		}
		entry := snapshot[ing.ID]
		if entry == nil || !units.Comparable(entry.Unit, item.Unit, ing) {
			continue
		}
		if item.QuantityInStock.Decimal.GreaterThanOrEqual(item.Quantity) {
			ids = append(ids, item.ID)
		}
	}

	var removed int64
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).DeleteItems(ctx, list.ID, ids)
		removed = n
		return err
	}); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove items in stock")
	}
	return int(removed), nil
}

// Validate moves a draft list to validated. Validating an already validated
// list is a no-op.
func (s *service) Validate(ctx context.Context, userID, listID uuid.UUID) (*ListView, error) {
	list, err := s.load(ctx, s.repo, userID, listID)
	if err != nil {
		return nil, err
	}
	if !statusIn(list.Status, validatableStatuses) {
		return nil, s.stateConflict("validate", list.Status, validatableStatuses...)
	}
	if list.Status == enums.ShoppingListStatusDraft {
		if err := s.transition(ctx, s.repo, list, []enums.ShoppingListStatus{enums.ShoppingListStatusDraft}, enums.ShoppingListStatusValidated, nil, "validate"); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, userID, listID)
}

// BeginShopping moves a validated list to shopping and assumes every item
// without a purchased quantity will be bought in full.
func (s *service) BeginShopping(ctx context.Context, userID, listID uuid.UUID) (*ListView, error) {
	list, err := s.load(ctx, s.repo, userID, listID)
	if err != nil {
		return nil, err
	}
	if list.Status != enums.ShoppingListStatusValidated {
		return nil, s.stateConflict("begin_shopping", list.Status, enums.ShoppingListStatusValidated)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if err := s.transition(ctx, r, list, []enums.ShoppingListStatus{enums.ShoppingListStatusValidated}, enums.ShoppingListStatusShopping, nil, "begin_shopping"); err != nil {
			return err
		}
		for i := range list.Items {
			item := &list.Items[i]
			if item.QuantityPurchased.Valid {
				continue
			}
			item.QuantityPurchased = decimal.NewNullDecimal(item.Quantity)
			if err := r.SaveItemState(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "initialise purchased quantities")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, listID)
}

// ParseQuantity reads a user-typed non-negative quantity; a decimal comma is
// accepted.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if cleaned == "" {
		return decimal.Zero, pkgerrors.Validation("invalid quantity", pkgerrors.FieldErrors{"quantity": "is required"})
	}
	q, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, pkgerrors.Validation("invalid quantity", pkgerrors.FieldErrors{"quantity": "must be a number"})
	}
	if q.IsNegative() {
		return decimal.Zero, pkgerrors.Validation("invalid quantity", pkgerrors.FieldErrors{"quantity": "must not be negative"})
	}
	return q, nil
}

func (s *service) UpdatePurchasedQuantity(ctx context.Context, userID, listID, itemID uuid.UUID, raw string) (*ItemView, error) {
	list, item, err := s.loadItem(ctx, "update_quantity", userID, listID, itemID)
	if err != nil {
		return nil, err
	}
	q, err := ParseQuantity(raw)
	if err != nil {
		return nil, err
	}
	item.QuantityPurchased = decimal.NewNullDecimal(q)
	return s.saveItem(ctx, list, item)
}

func (s *service) TogglePurchased(ctx context.Context, userID, listID, itemID uuid.UUID, purchased bool) (*ItemView, error) {
	list, item, err := s.loadItem(ctx, "toggle_purchased", userID, listID, itemID)
	if err != nil {
		return nil, err
	}
	item.Purchased = purchased
	return s.saveItem(ctx, list, item)
}

func (s *service) RemoveItem(ctx context.Context, userID, listID, itemID uuid.UUID) error {
	list, item, err := s.loadItem(ctx, "remove_item", userID, listID, itemID)
	if err != nil {
		return err
	}
	if _, err := s.repo.DeleteItems(ctx, list.ID, []uuid.UUID{item.ID}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove shopping list item")
	}
	return nil
}

// Complete credits every purchased item to stock and closes the list. The
// status change is conditional and shares the transaction with the credits,
// so a list is credited at most once even under concurrent calls.
func (s *service) Complete(ctx context.Context, userID, listID uuid.UUID) (*CompletionResult, error) {
	start := s.now()
	ctx = s.logg.WithListID(ctx, listID.String())

	list, err := s.load(ctx, s.repo, userID, listID)
	if err != nil {
		return nil, err
	}
	if !statusIn(list.Status, completableStatuses) {
		return nil, s.stateConflict("complete", list.Status, completableStatuses...)
	}

	if s.locker != nil {
		release, err := s.acquireCompletionLock(ctx, listID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	ings, err := s.resolve(ctx, list.Items)
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{Skipped: []string{}}
	var from enums.ShoppingListStatus
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		current, err := s.load(ctx, r, userID, listID)
		if err != nil {
			return err
		}
		if !statusIn(current.Status, completableStatuses) {
			return s.stateConflict("complete", current.Status, completableStatuses...)
		}
		from = current.Status
		completedAt := s.now().UTC()
		if err := s.transition(ctx, r, current, completableStatuses, enums.ShoppingListStatusCompleted, &completedAt, "complete"); err != nil {
			return err
		}

		ledger := s.stock.WithTx(tx)
		for i := range current.Items {
			item := &current.Items[i]
			if !item.Purchased {
				continue
			}
			ing := ings[item.IngredientName]
			if ing == nil {
				result.Skipped = append(result.Skipped, item.IngredientName)
				continue
			}
			qty := item.CreditQuantity()
			if qty.IsZero() {
				continue
			}
			if _, err := ledger.Credit(ctx, userID, ing, qty, item.Unit); err != nil {
				return err
			}
			result.Credited++
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete shopping list")
	}

	s.metrics.IncTransition(from.String(), enums.ShoppingListStatusCompleted.String())
	s.metrics.AddCredits(result.Credited)
	s.metrics.ObserveCompletion(s.now().Sub(start))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"from_status": from.String(),
		"credited":    result.Credited,
		"skipped":     len(result.Skipped),
	}), "shopping.completed")
	if len(result.Skipped) > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "skipped_items", result.Skipped), "shopping.completed with unresolved ingredients")
	}

	view, err := s.Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	result.List = view
	return result, nil
}

func (s *service) acquireCompletionLock(ctx context.Context, listID uuid.UUID) (func(), error) {
	lock, err := s.locker.NewLock(completionLockScope, listID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build completion lock")
	}
	ok, err := lock.Acquire(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire completion lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "shopping list completion already in progress")
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logg.Error(ctx, "failed to release completion lock", err)
		}
	}, nil
}

func (s *service) transition(ctx context.Context, r *Repository, list *models.ShoppingList, from []enums.ShoppingListStatus, to enums.ShoppingListStatus, completedAt *time.Time, operation string) error {
	ok, err := r.TransitionStatus(ctx, list.UserID, list.ID, from, to, completedAt)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shopping list status")
	}
	if !ok {
		return s.stateConflict(operation, list.Status, from...)
	}
	if to != enums.ShoppingListStatusCompleted {
		s.metrics.IncTransition(list.Status.String(), to.String())
	}
	list.Status = to
	list.CompletedAt = completedAt
	return nil
}

func (s *service) stateConflict(operation string, status enums.ShoppingListStatus, allowed ...enums.ShoppingListStatus) error {
	s.metrics.IncRejected(operation)
	msg := fmt.Sprintf("cannot %s a %s shopping list", strings.ReplaceAll(operation, "_", " "), status)
	switch {
	case operation == "complete" && status == enums.ShoppingListStatusCompleted:
		msg = "shopping list is already completed"
	case status == enums.ShoppingListStatusCompleted:
		msg = "completed shopping lists are read-only"
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).WithDetails(map[string]any{
		"operation": operation,
		"status":    status,
		"allowed":   allowed,
	})
}

func (s *service) load(ctx context.Context, r *Repository, userID, listID uuid.UUID) (*models.ShoppingList, error) {
	list, err := r.FindByID(ctx, userID, listID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shopping list not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list")
	}
	return list, nil
}

// loadItem resolves an item for editing. Items of a completed list are
// read-only since their purchases have already been credited to stock.
func (s *service) loadItem(ctx context.Context, operation string, userID, listID, itemID uuid.UUID) (*models.ShoppingList, *models.ShoppingListItem, error) {
	list, err := s.load(ctx, s.repo, userID, listID)
	if err != nil {
		return nil, nil, err
	}
	if !statusIn(list.Status, editableStatuses) {
		return nil, nil, s.stateConflict(operation, list.Status, editableStatuses...)
	}
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			return list, &list.Items[i], nil
		}
	}
	return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "shopping list item not found")
}

func (s *service) saveItem(ctx context.Context, list *models.ShoppingList, item *models.ShoppingListItem) (*ItemView, error) {
	if err := s.repo.SaveItemState(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shopping list item")
	}
	ings, err := s.resolve(ctx, []models.ShoppingListItem{*item})
	if err != nil {
		return nil, err
	}
	view := toItemView(item, ings[item.IngredientName], s.now().Month())
	return &view, nil
}

// resolve maps denormalized item names back to catalog ingredients. Names
// that no longer resolve are absent from the map.
func (s *service) resolve(ctx context.Context, items []models.ShoppingListItem) (map[string]*models.Ingredient, error) {
	names := make([]string, 0, len(items))
	for i := range items {
		names = append(names, items[i].IngredientName)
	}
	ings, err := s.catalog.FindIngredientsByNames(ctx, names)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve ingredients")
	}
	return ings, nil
}

func statusIn(status enums.ShoppingListStatus, allowed []enums.ShoppingListStatus) bool {
	for _, a := range allowed {
		if a == status {
			return true
		}
	}
	return false
}
