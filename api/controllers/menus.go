package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/mealplanner-backend/api/responses"
	"github.com/angelmondragon/mealplanner-backend/internal/demand"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
)

type menuDemandLoader interface {
	ForMenu(ctx context.Context, userID, menuID uuid.UUID) (*models.Menu, *demand.Demand, error)
}

type menuDemandResponse struct {
	MenuID    uuid.UUID         `json:"menu_id"`
	Name      string            `json:"name"`
	StartDate time.Time         `json:"start_date"`
	Headcount int               `json:"headcount"`
	Lines     []demand.LineView `json:"lines"`
}

// MenuDemand returns the ingredient totals a menu needs for its headcount.
func MenuDemand(loader menuDemandLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		menuID, err := pathUUID(r, "menuId", "menu id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu, d, err := loader.ForMenu(r.Context(), userID, menuID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, menuDemandResponse{
			MenuID:    menu.ID,
			Name:      menu.Name,
			StartDate: menu.StartDate,
			Headcount: menu.Headcount,
			Lines:     d.Views(),
		})
	}
}
