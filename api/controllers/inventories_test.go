package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mealplanner-backend/internal/inventory"
)

type fakeInventoryService struct {
	inventory.Service
	recordFn func(ctx context.Context, userID uuid.UUID, input inventory.RecordInput) (*inventory.RecordView, error)
	getFn    func(ctx context.Context, userID, recordID uuid.UUID) (*inventory.RecordView, error)
}

func (f *fakeInventoryService) Record(ctx context.Context, userID uuid.UUID, input inventory.RecordInput) (*inventory.RecordView, error) {
	return f.recordFn(ctx, userID, input)
}

func (f *fakeInventoryService) Get(ctx context.Context, userID, recordID uuid.UUID) (*inventory.RecordView, error) {
	return f.getFn(ctx, userID, recordID)
}

func TestRecordInventory(t *testing.T) {
	userID := uuid.New()
	flour := uuid.New()
	eggs := uuid.New()

	t.Run("records counts", func(t *testing.T) {
		svc := &fakeInventoryService{
			recordFn: func(ctx context.Context, uid uuid.UUID, input inventory.RecordInput) (*inventory.RecordView, error) {
				if input.Notes != "fin de mois" {
					t.Fatalf("unexpected notes %q", input.Notes)
				}
				if len(input.Counts) != 2 {
					t.Fatalf("expected 2 counts got %d", len(input.Counts))
				}
				if !decimal.NewFromInt(800).Equal(input.Counts[flour]) || !decimal.NewFromInt(6).Equal(input.Counts[eggs]) {
					t.Fatalf("unexpected counts %v", input.Counts)
				}
				return &inventory.RecordView{ID: uuid.New(), SurplusCount: 1, UpdatedCount: 2}, nil
			},
		}
		body := `{"notes":"fin de mois","counts":{"` + flour.String() + `":"800","` + eggs.String() + `":6}}`
		rec := httptest.NewRecorder()
		RecordInventory(svc, testLogger())(rec, newRequest(http.MethodPost, "/api/v1/inventories", body, &userID, nil))

		requireStatus(t, rec, http.StatusCreated)
		var view inventory.RecordView
		decodeData(t, rec, &view)
		if view.UpdatedCount != 2 {
			t.Fatalf("expected 2 updated got %d", view.UpdatedCount)
		}
	})

	t.Run("bad ingredient key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RecordInventory(&fakeInventoryService{}, testLogger())(rec, newRequest(http.MethodPost, "/api/v1/inventories", `{"counts":{"flour":"1"}}`, &userID, nil))

		requireStatus(t, rec, http.StatusBadRequest)
		env := decodeError(t, rec)
		if _, ok := env.Error.Details["counts.flour"]; !ok {
			t.Fatalf("expected counts.flour in details %v", env.Error.Details)
		}
	})

	t.Run("no counts", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RecordInventory(&fakeInventoryService{}, testLogger())(rec, newRequest(http.MethodPost, "/api/v1/inventories", `{"counts":{}}`, &userID, nil))
		requireStatus(t, rec, http.StatusBadRequest)
	})
}

func TestGetInventoryInvalidID(t *testing.T) {
	userID := uuid.New()
	rec := httptest.NewRecorder()
	GetInventory(&fakeInventoryService{}, testLogger())(rec, newRequest(http.MethodGet, "/", "", &userID, map[string]string{"inventoryId": "x"}))
	requireStatus(t, rec, http.StatusBadRequest)
}
