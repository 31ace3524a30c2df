package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
)

// QueryInt reads an optional integer query parameter bounded by [min, max].
// A missing or blank value yields fallback.
func QueryInt(r *http.Request, key string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Validation("invalid query parameter", pkgerrors.FieldErrors{key: "must be an integer"})
	}
	if value < min || value > max {
		return 0, pkgerrors.Validation("invalid query parameter", pkgerrors.FieldErrors{
			key: "must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max),
		})
	}
	return value, nil
}
