package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mealplanner-backend/api/responses"
	"github.com/angelmondragon/mealplanner-backend/api/validators"
	"github.com/angelmondragon/mealplanner-backend/internal/shopping"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
)

type createShoppingListRequest struct {
	MenuID *string                    `json:"menu_id" validate:"omitempty,uuid"`
	Name   string                     `json:"name" validate:"max=120"`
	Items  []createShoppingItemRequest `json:"items" validate:"omitempty,dive"`
}

type createShoppingItemRequest struct {
	IngredientID *string         `json:"ingredient_id" validate:"omitempty,uuid"`
	Name         string          `json:"name" validate:"max=120"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"max=32"`
}

// updateShoppingItemRequest carries the purchased quantity as raw text so the
// engine can report malformed input itself.
type updateShoppingItemRequest struct {
	Purchased         *bool   `json:"purchased"`
	QuantityPurchased *string `json:"quantity_purchased"`
}

func (req createShoppingListRequest) toInput() shopping.CreateInput {
	input := shopping.CreateInput{Name: validators.SanitizeString(req.Name, 120)}
	if req.MenuID != nil {
		id := uuid.MustParse(*req.MenuID)
		input.MenuID = &id
	}
	for _, item := range req.Items {
		in := shopping.ItemInput{
			Name:     validators.SanitizeString(item.Name, 120),
			Quantity: item.Quantity,
			Unit:     strings.TrimSpace(item.Unit),
		}
		if item.IngredientID != nil {
			id := uuid.MustParse(*item.IngredientID)
			in.IngredientID = &id
		}
		input.Items = append(input.Items, in)
	}
	return input
}

// CreateShoppingList builds a draft list from a menu or from manual items.
func CreateShoppingList(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createShoppingListRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), userID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func ListShoppingLists(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var status enums.ShoppingListStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err = enums.ParseShoppingListStatus(strings.ToLower(raw))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("invalid query", pkgerrors.FieldErrors{"status": "unknown status"}))
				return
			}
		}
		lists, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if status != "" {
			filtered := make([]shopping.Summary, 0, len(lists))
			for _, l := range lists {
				if l.Status == status {
					filtered = append(filtered, l)
				}
			}
			lists = filtered
		}
		responses.WriteSuccess(w, lists)
	}
}

func GetShoppingList(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return listAction(logg, func(r *http.Request, userID, listID uuid.UUID) (any, error) {
		return svc.Get(r.Context(), userID, listID)
	})
}

func DeleteShoppingList(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, listID, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, listID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ReconcileShoppingList refreshes the in-stock quantities of a draft list.
func ReconcileShoppingList(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return listAction(logg, func(r *http.Request, userID, listID uuid.UUID) (any, error) {
		return svc.Reconcile(r.Context(), userID, listID)
	})
}

func RemoveShoppingItemsInStock(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return listAction(logg, func(r *http.Request, userID, listID uuid.UUID) (any, error) {
		removed, err := svc.RemoveItemsInStock(r.Context(), userID, listID)
		if err != nil {
			return nil, err
		}
		return map[string]int{"removed": removed}, nil
	})
}

func ValidateShoppingList(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return listAction(logg, func(r *http.Request, userID, listID uuid.UUID) (any, error) {
		return svc.Validate(r.Context(), userID, listID)
	})
}

func BeginShopping(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return listAction(logg, func(r *http.Request, userID, listID uuid.UUID) (any, error) {
		return svc.BeginShopping(r.Context(), userID, listID)
	})
}

// CompleteShoppingList credits purchased items to stock and closes the list.
func CompleteShoppingList(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return listAction(logg, func(r *http.Request, userID, listID uuid.UUID) (any, error) {
		return svc.Complete(r.Context(), userID, listID)
	})
}

// UpdateShoppingItem applies a purchased quantity, a purchased flag, or both.
// The quantity is applied first so a toggle in the same request sees it.
func UpdateShoppingItem(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, listID, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateShoppingItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Purchased == nil && body.QuantityPurchased == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "purchased or quantity_purchased is required"))
			return
		}

		var view *shopping.ItemView
		if body.QuantityPurchased != nil {
			view, err = svc.UpdatePurchasedQuantity(r.Context(), userID, listID, itemID, *body.QuantityPurchased)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if body.Purchased != nil {
			view, err = svc.TogglePurchased(r.Context(), userID, listID, itemID, *body.Purchased)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, view)
	}
}

func DeleteShoppingItem(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, listID, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveItem(r.Context(), userID, listID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listParams(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, err := requireUser(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	listID, err := pathUUID(r, "listId", "shopping list id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, listID, nil
}

func listAction(logg *logger.Logger, fn func(r *http.Request, userID, listID uuid.UUID) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, listID, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		data, err := fn(r, userID, listID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}
