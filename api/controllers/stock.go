package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mealplanner-backend/api/responses"
	"github.com/angelmondragon/mealplanner-backend/api/validators"
	"github.com/angelmondragon/mealplanner-backend/internal/stock"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
)

type addStockRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit         string          `json:"unit" validate:"max=32"`
}

type adjustStockRequest struct {
	Action   string          `json:"action" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
}

// ListStock returns the user's pantry grouped by storage location.
func ListStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var category enums.IngredientCategory
		if raw := r.URL.Query().Get("category"); raw != "" {
			category, err = enums.ParseIngredientCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("invalid query", pkgerrors.FieldErrors{"category": "unknown category"}))
				return
			}
		}
		groups, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if category != "" {
			groups = filterCategory(groups, category)
		}
		responses.WriteSuccess(w, groups)
	}
}

// filterCategory keeps entries of one aisle and drops locations left empty.
func filterCategory(groups []stock.LocationGroup, category enums.IngredientCategory) []stock.LocationGroup {
	out := make([]stock.LocationGroup, 0, len(groups))
	for _, g := range groups {
		var entries []stock.EntryView
		for _, e := range g.Entries {
			if e.Category == string(category) {
				entries = append(entries, e)
			}
		}
		if len(entries) > 0 {
			out = append(out, stock.LocationGroup{Location: g.Location, Entries: entries})
		}
	}
	return out
}

func CountLowStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		count, err := svc.CountLow(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": count})
	}
}

func AddStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body addStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Add(r.Context(), userID, stock.AddInput{
			IngredientID: uuid.MustParse(body.IngredientID),
			Quantity:     body.Quantity,
			Unit:         body.Unit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func AdjustStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entryID, err := pathUUID(r, "entryId", "stock entry id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		action, err := enums.ParseStockAdjustAction(body.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action").
				WithDetails(map[string]string{"action": "must be one of increase, decrease, set"}))
			return
		}

		view, err := svc.Adjust(r.Context(), userID, entryID, action, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func DeleteStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entryID, err := pathUUID(r, "entryId", "stock entry id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, entryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
