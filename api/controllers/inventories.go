package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mealplanner-backend/api/responses"
	"github.com/angelmondragon/mealplanner-backend/api/validators"
	"github.com/angelmondragon/mealplanner-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
)

type recordInventoryRequest struct {
	Notes  string                     `json:"notes" validate:"max=500"`
	Counts map[string]decimal.Decimal `json:"counts" validate:"required,min=1"`
}

func (req recordInventoryRequest) toInput() (inventory.RecordInput, error) {
	input := inventory.RecordInput{
		Notes:  validators.SanitizeString(req.Notes, 500),
		Counts: make(map[uuid.UUID]decimal.Decimal, len(req.Counts)),
	}
	invalid := map[string]string{}
	for raw, counted := range req.Counts {
		id, err := uuid.Parse(raw)
		if err != nil {
			invalid["counts."+raw] = "must be an ingredient id"
			continue
		}
		input.Counts[id] = counted
	}
	if len(invalid) > 0 {
		return inventory.RecordInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid counts").WithDetails(invalid)
	}
	return input, nil
}

// RecordInventory stores a physical count and overwrites the stock entries
// that differ from it.
func RecordInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body recordInventoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Record(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func ListInventories(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		records, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

func GetInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recordID, err := pathUUID(r, "inventoryId", "inventory id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), userID, recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func DeleteInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recordID, err := pathUUID(r, "inventoryId", "inventory id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, recordID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
