package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mealplanner-backend/internal/stock"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
)

type fakeStockService struct {
	stock.Service
	addFn      func(ctx context.Context, userID uuid.UUID, input stock.AddInput) (*stock.EntryView, error)
	adjustFn   func(ctx context.Context, userID, entryID uuid.UUID, action enums.StockAdjustAction, q decimal.Decimal) (*stock.EntryView, error)
	listFn     func(ctx context.Context, userID uuid.UUID) ([]stock.LocationGroup, error)
	countLowFn func(ctx context.Context, userID uuid.UUID) (int, error)
	deleteFn   func(ctx context.Context, userID, entryID uuid.UUID) error
}

func (f *fakeStockService) Add(ctx context.Context, userID uuid.UUID, input stock.AddInput) (*stock.EntryView, error) {
	return f.addFn(ctx, userID, input)
}

func (f *fakeStockService) Adjust(ctx context.Context, userID, entryID uuid.UUID, action enums.StockAdjustAction, q decimal.Decimal) (*stock.EntryView, error) {
	return f.adjustFn(ctx, userID, entryID, action, q)
}

func (f *fakeStockService) List(ctx context.Context, userID uuid.UUID) ([]stock.LocationGroup, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeStockService) CountLow(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.countLowFn(ctx, userID)
}

func (f *fakeStockService) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	return f.deleteFn(ctx, userID, entryID)
}

func TestAddStock(t *testing.T) {
	userID := uuid.New()
	ingredientID := uuid.New()

	t.Run("credits", func(t *testing.T) {
		svc := &fakeStockService{
			addFn: func(ctx context.Context, uid uuid.UUID, input stock.AddInput) (*stock.EntryView, error) {
				if input.IngredientID != ingredientID || !decimal.NewFromInt(250).Equal(input.Quantity) {
					t.Fatalf("unexpected input %+v", input)
				}
				return &stock.EntryView{IngredientID: input.IngredientID, Quantity: input.Quantity, Unit: "g"}, nil
			},
		}
		body := `{"ingredient_id":"` + ingredientID.String() + `","quantity":250,"unit":"g"}`
		rec := httptest.NewRecorder()
		AddStock(svc, testLogger())(rec, newRequest(http.MethodPost, "/api/v1/stock", body, &userID, nil))

		requireStatus(t, rec, http.StatusCreated)
		var view stock.EntryView
		decodeData(t, rec, &view)
		if view.Unit != "g" {
			t.Fatalf("expected g got %s", view.Unit)
		}
	})

	t.Run("missing ingredient", func(t *testing.T) {
		rec := httptest.NewRecorder()
		AddStock(&fakeStockService{}, testLogger())(rec, newRequest(http.MethodPost, "/api/v1/stock", `{"quantity":1}`, &userID, nil))

		requireStatus(t, rec, http.StatusBadRequest)
		env := decodeError(t, rec)
		if msg := env.Error.Details["ingredient_id"]; msg != "is required" {
			t.Fatalf("unexpected message %v", msg)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := `{"ingredient_id":"` + ingredientID.String() + `","quantity":0}`
		AddStock(&fakeStockService{}, testLogger())(rec, newRequest(http.MethodPost, "/api/v1/stock", body, &userID, nil))

		requireStatus(t, rec, http.StatusBadRequest)
		env := decodeError(t, rec)
		if msg := env.Error.Details["quantity"]; msg != "must be greater than 0" {
			t.Fatalf("unexpected message %v", msg)
		}
	})
}

func TestAdjustStock(t *testing.T) {
	userID := uuid.New()
	entryID := uuid.New()
	params := map[string]string{"entryId": entryID.String()}

	t.Run("parses action", func(t *testing.T) {
		svc := &fakeStockService{
			adjustFn: func(ctx context.Context, uid, eid uuid.UUID, action enums.StockAdjustAction, q decimal.Decimal) (*stock.EntryView, error) {
				if eid != entryID {
					t.Fatalf("unexpected entry id %s", eid)
				}
				if action != enums.StockAdjustDecrease {
					t.Fatalf("expected decrease got %s", action)
				}
				return &stock.EntryView{ID: eid, Quantity: decimal.NewFromInt(3)}, nil
			},
		}
		rec := httptest.NewRecorder()
		AdjustStock(svc, testLogger())(rec, newRequest(http.MethodPost, "/", `{"action":"Decrease","quantity":"2"}`, &userID, params))
		requireStatus(t, rec, http.StatusOK)
	})

	t.Run("unknown action", func(t *testing.T) {
		rec := httptest.NewRecorder()
		AdjustStock(&fakeStockService{}, testLogger())(rec, newRequest(http.MethodPost, "/", `{"action":"double","quantity":"2"}`, &userID, params))
		requireStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("entry not found", func(t *testing.T) {
		svc := &fakeStockService{
			adjustFn: func(ctx context.Context, uid, eid uuid.UUID, action enums.StockAdjustAction, q decimal.Decimal) (*stock.EntryView, error) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
			},
		}
		rec := httptest.NewRecorder()
		AdjustStock(svc, testLogger())(rec, newRequest(http.MethodPost, "/", `{"action":"set","quantity":"0"}`, &userID, params))
		requireStatus(t, rec, http.StatusNotFound)
	})
}

func TestListStockFiltersCategory(t *testing.T) {
	userID := uuid.New()
	svc := &fakeStockService{
		listFn: func(ctx context.Context, uid uuid.UUID) ([]stock.LocationGroup, error) {
			return []stock.LocationGroup{
				{Location: "frigo", Entries: []stock.EntryView{
					{IngredientName: "lait", Category: string(enums.CategoryDairy)},
					{IngredientName: "carotte", Category: string(enums.CategoryProduce)},
				}},
				{Location: "placard", Entries: []stock.EntryView{
					{IngredientName: "riz", Category: string(enums.CategoryPastaRice)},
				}},
			}, nil
		},
	}

	t.Run("filters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ListStock(svc, testLogger())(rec, newRequest(http.MethodGet, "/api/v1/stock?category=Produits+laitiers", "", &userID, nil))

		requireStatus(t, rec, http.StatusOK)
		var groups []stock.LocationGroup
		decodeData(t, rec, &groups)
		if len(groups) != 1 || groups[0].Location != "frigo" {
			t.Fatalf("unexpected groups %+v", groups)
		}
		if len(groups[0].Entries) != 1 || groups[0].Entries[0].IngredientName != "lait" {
			t.Fatalf("unexpected entries %+v", groups[0].Entries)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ListStock(svc, testLogger())(rec, newRequest(http.MethodGet, "/api/v1/stock?category=Jouets", "", &userID, nil))
		requireStatus(t, rec, http.StatusBadRequest)
	})
}

func TestCountLowStock(t *testing.T) {
	userID := uuid.New()
	svc := &fakeStockService{
		countLowFn: func(ctx context.Context, uid uuid.UUID) (int, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return 4, nil
		},
	}
	rec := httptest.NewRecorder()
	CountLowStock(svc, testLogger())(rec, newRequest(http.MethodGet, "/api/v1/stock/low-count", "", &userID, nil))

	requireStatus(t, rec, http.StatusOK)
	var out map[string]int
	decodeData(t, rec, &out)
	if out["count"] != 4 {
		t.Fatalf("expected count 4 got %d", out["count"])
	}
}

func TestDeleteStock(t *testing.T) {
	userID := uuid.New()
	entryID := uuid.New()
	svc := &fakeStockService{
		deleteFn: func(ctx context.Context, uid, eid uuid.UUID) error { return nil },
	}
	rec := httptest.NewRecorder()
	DeleteStock(svc, testLogger())(rec, newRequest(http.MethodDelete, "/", "", &userID, map[string]string{"entryId": entryID.String()}))
	requireStatus(t, rec, http.StatusNoContent)
}
