package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/catalog"
	"github.com/angelmondragon/mealplanner-backend/pkg/db"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/dbtest"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), catalog.NewRepository(conn))
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc, conn
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if !pkgerrors.HasCode(err, code) {
		t.Fatalf("expected %s got %v", code, err)
	}
}

func requireQuantity(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !dec(want).Equal(got) {
		t.Fatalf("expected quantity %s got %s", want, got)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreditCreatesThenAdds(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	carrot := dbtest.MustCreateIngredient(t, conn, "carotte", "g")

	entry, err := svc.Credit(ctx, user, carrot, dec("50"), "g")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	requireQuantity(t, "50", entry.Quantity)

	entry, err = svc.Credit(ctx, user, carrot, dec("150"), "g")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	requireQuantity(t, "200", entry.Quantity)

	stored, err := svc.Get(ctx, user, carrot.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	requireQuantity(t, "200", stored.Quantity)
	if stored.Unit != "g" {
		t.Fatalf("expected g got %s", stored.Unit)
	}
}

func TestCreditConvertsComparableUnits(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	flour := dbtest.MustCreateIngredient(t, conn, "farine", "g")
	dbtest.MustCreateStock(t, conn, user, flour, "1", "kg")

	entry, err := svc.Credit(ctx, user, flour, dec("250"), "g")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	requireQuantity(t, "1250", entry.Quantity)
	if entry.Unit != "g" {
		t.Fatalf("expected g got %s", entry.Unit)
	}
}

func TestCreditOverwritesIncomparableUnit(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	leek := dbtest.MustCreateIngredient(t, conn, "poireau", "piece")
	dbtest.MustCreateStock(t, conn, user, leek, "300", "g")

	entry, err := svc.Credit(ctx, user, leek, dec("2"), "piece")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	requireQuantity(t, "302", entry.Quantity)
	if entry.Unit != "piece" {
		t.Fatalf("expected piece got %s", entry.Unit)
	}
}

func TestCreditRejectsNegative(t *testing.T) {
	svc, conn := newTestService(t)
	carrot := dbtest.MustCreateIngredient(t, conn, "carotte", "g")
	_, err := svc.Credit(context.Background(), uuid.New(), carrot, dec("-1"), "g")
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestDebitClampsAndDeletes(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	carrot := dbtest.MustCreateIngredient(t, conn, "carotte", "g")
	dbtest.MustCreateStock(t, conn, user, carrot, "100", "g")

	res, err := svc.Debit(ctx, user, carrot.ID, dec("40"))
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if !res.Found || res.Deleted {
		t.Fatalf("unexpected debit result %+v", res)
	}
	requireQuantity(t, "40", res.Removed)
	requireQuantity(t, "60", res.Remaining)

	res, err = svc.Debit(ctx, user, carrot.ID, dec("500"))
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if !res.Deleted {
		t.Fatal("expected entry deleted")
	}
	requireQuantity(t, "60", res.Removed)

	entry, err := svc.Get(ctx, user, carrot.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no entry got %+v", entry)
	}

	res, err = svc.Debit(ctx, user, carrot.ID, dec("1"))
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if res.Found {
		t.Fatal("expected missing entry")
	}
}

func TestStockIsScopedPerUser(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	carrot := dbtest.MustCreateIngredient(t, conn, "carotte", "g")
	alice, bob := uuid.New(), uuid.New()
	dbtest.MustCreateStock(t, conn, alice, carrot, "100", "g")

	entry, err := svc.Get(ctx, bob, carrot.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no entry for another user got %+v", entry)
	}
}

func TestAdjustActions(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := dbtest.MustCreateIngredient(t, conn, "lait", "ml", dbtest.WithCategory(enums.CategoryDairy))
	entry := dbtest.MustCreateStock(t, conn, user, milk, "500", "ml")

	view, err := svc.Adjust(ctx, user, entry.ID, enums.StockAdjustIncrease, dec("250"))
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	requireQuantity(t, "750", view.Quantity)

	view, err = svc.Adjust(ctx, user, entry.ID, enums.StockAdjustDecrease, dec("1000"))
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if !view.Quantity.IsZero() || !view.Low {
		t.Fatalf("expected empty low entry got %s low=%v", view.Quantity, view.Low)
	}

	view, err = svc.Adjust(ctx, user, entry.ID, enums.StockAdjustSet, dec("80"))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	requireQuantity(t, "80", view.Quantity)

	_, err = svc.Adjust(ctx, user, entry.ID, enums.StockAdjustSet, dec("-5"))
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Adjust(ctx, uuid.New(), entry.ID, enums.StockAdjustSet, dec("5"))
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestAddDefaultsToBaseUnit(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	rice := dbtest.MustCreateIngredient(t, conn, "riz", "g", dbtest.WithCategory(enums.CategoryPastaRice))

	view, err := svc.Add(ctx, user, AddInput{IngredientID: rice.ID, Quantity: dec("500")})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if view.Unit != "g" || view.IngredientName != "riz" || view.Low {
		t.Fatalf("unexpected view %+v", view)
	}

	_, err = svc.Add(ctx, user, AddInput{IngredientID: uuid.New(), Quantity: dec("1")})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Add(ctx, user, AddInput{IngredientID: rice.ID, Quantity: dec("0")})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestListGroupsByLocationAndCountLow(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := dbtest.MustCreateIngredient(t, conn, "lait", "ml", dbtest.WithCategory(enums.CategoryDairy), dbtest.WithStorage("Frigo"))
	butter := dbtest.MustCreateIngredient(t, conn, "beurre", "g", dbtest.WithCategory(enums.CategoryDairy), dbtest.WithStorage("Frigo"))
	salt := dbtest.MustCreateIngredient(t, conn, "sel", "g", dbtest.WithThreshold("5"))
	pasta := dbtest.MustCreateIngredient(t, conn, "pâtes", "g", dbtest.WithCategory(enums.CategoryPastaRice), dbtest.WithStorage("Placard"))
	dbtest.MustCreateStock(t, conn, user, milk, "1000", "ml")
	dbtest.MustCreateStock(t, conn, user, butter, "100", "g")
	dbtest.MustCreateStock(t, conn, user, salt, "20", "g")
	dbtest.MustCreateStock(t, conn, user, pasta, "150", "g")

	groups, err := svc.List(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups got %d", len(groups))
	}
	for i, want := range []string{"Frigo", "Placard", UnassignedLocation} {
		if groups[i].Location != want {
			t.Fatalf("group %d: expected %s got %s", i, want, groups[i].Location)
		}
	}
	fridge := groups[0].Entries
	if fridge[0].IngredientName != "beurre" || !fridge[0].Low || fridge[1].Low {
		t.Fatalf("unexpected fridge entries %+v", fridge)
	}

	low, err := svc.CountLow(ctx, user)
	if err != nil {
		t.Fatalf("count low: %v", err)
	}
	if low != 2 {
		t.Fatalf("expected 2 low entries got %d", low)
	}
}

func TestDeleteScopedToUser(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	carrot := dbtest.MustCreateIngredient(t, conn, "carotte", "g")
	entry := dbtest.MustCreateStock(t, conn, user, carrot, "10", "g")

	err := svc.Delete(ctx, uuid.New(), entry.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
	if err := svc.Delete(ctx, user, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestCreateDuplicateEntryIsConflict(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	salt := dbtest.MustCreateIngredient(t, conn, "sel", "g")
	dbtest.MustCreateStock(t, conn, user, salt, "100", "g")

	err := svc.(*service).create(ctx, &models.StockEntry{UserID: user, IngredientID: salt.ID, Quantity: dec("5"), Unit: "g"})
	requireCode(t, err, pkgerrors.CodeConflict)
}
