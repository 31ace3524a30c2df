package controllers

import (
	"net/http"

	"github.com/angelmondragon/mealplanner-backend/api/responses"
	"github.com/angelmondragon/mealplanner-backend/api/validators"
	"github.com/angelmondragon/mealplanner-backend/internal/kitchen"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
)

type cookRecipeRequest struct {
	Portions int `json:"portions" validate:"min=0,max=100"`
}

// CookRecipe debits the recipe's ingredients from stock. An empty body cooks
// the recipe's own yield.
func CookRecipe(svc kitchen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recipeID, err := pathUUID(r, "recipeId", "recipe id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cookRecipeRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.Cook(r.Context(), userID, recipeID, body.Portions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PossibleRecipes lists what can be cooked from stock right now. The optional
// min_portions query drops recipes that cannot feed that many people.
func PossibleRecipes(svc kitchen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minPortions, err := validators.QueryInt(r, "min_portions", 1, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recipes, err := svc.PossibleRecipes(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]kitchen.PossibleRecipe, 0, len(recipes))
		for _, recipe := range recipes {
			if recipe.Portions >= minPortions {
				out = append(out, recipe)
			}
		}
		responses.WriteSuccess(w, out)
	}
}
