package demand

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/catalog"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/dbtest"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	"github.com/angelmondragon/mealplanner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func recipe(base int, lines ...models.RecipeLine) *models.Recipe {
	for i := range lines {
		lines[i].Position = i
	}
	return &models.Recipe{ID: uuid.New(), BasePortions: base, Lines: lines}
}

func line(ing *models.Ingredient, q, unit string) models.RecipeLine {
	return models.RecipeLine{IngredientID: ing.ID, Ingredient: ing, Quantity: dec(q), Unit: unit}
}

func menu(headcount int, assignments ...models.MenuAssignment) *models.Menu {
	return &models.Menu{ID: uuid.New(), Headcount: headcount, Assignments: assignments}
}

func assign(day int, slot enums.MealSlot, r *models.Recipe) models.MenuAssignment {
	return models.MenuAssignment{DayIndex: day, Slot: slot, Recipe: r}
}

func TestComputeScalesByHeadcount(t *testing.T) {
	carrot := &models.Ingredient{ID: uuid.New(), Name: "carotte"}
	soup := recipe(4, line(carrot, "400", "g"))

	d := Compute(menu(2, assign(0, enums.MealSlotLunch, soup)))

	got, ok := d.Get(Key{IngredientID: carrot.ID, Unit: "g"})
	if !ok || !dec("200").Equal(got) {
		t.Fatalf("expected 200 g got %s (found=%v)", got, ok)
	}
	if d.Len() != 1 {
		t.Fatalf("expected 1 line got %d", d.Len())
	}
}

func TestComputeEmptyMenu(t *testing.T) {
	for name, m := range map[string]*models.Menu{
		"no assignments": menu(2),
		"nil menu":       nil,
		"empty slot":     menu(2, assign(0, enums.MealSlotDinner, nil)),
	} {
		if n := Compute(m).Len(); n != 0 {
			t.Fatalf("%s: expected no demand got %d lines", name, n)
		}
	}
}

func TestComputeIsAdditive(t *testing.T) {
	carrot := &models.Ingredient{ID: uuid.New(), Name: "carotte"}
	milk := &models.Ingredient{ID: uuid.New(), Name: "lait"}
	soup := recipe(4, line(carrot, "400", "g"), line(milk, "0.5", "l"))

	single := Compute(menu(3, assign(0, enums.MealSlotLunch, soup)))
	double := Compute(menu(3, assign(0, enums.MealSlotLunch, soup), assign(4, enums.MealSlotDinner, soup)))

	if single.Len() != double.Len() {
		t.Fatalf("expected %d lines got %d", single.Len(), double.Len())
	}
	for _, l := range single.Lines() {
		got, ok := double.Get(l.Key)
		if !ok {
			t.Fatalf("missing key %v", l.Key)
		}
		if want := l.Quantity.Mul(decimal.NewFromInt(2)); !want.Equal(got) {
			t.Fatalf("key %v: expected %s got %s", l.Key, want, got)
		}
	}
}

func TestComputeKeepsIncomparableUnitsApart(t *testing.T) {
	garlic := &models.Ingredient{ID: uuid.New(), Name: "ail"}
	r := recipe(2,
		line(garlic, "2", "gousses"),
		line(garlic, "10", "g"),
		line(garlic, "0.02", "kg"),
		line(garlic, "1", "pincée"),
		line(garlic, "1", "Pincée"),
	)

	d := Compute(menu(2, assign(0, enums.MealSlotDinner, r)))
	if d.Len() != 3 {
		t.Fatalf("expected 3 lines got %d", d.Len())
	}

	want := map[string]string{"g": "30", "clove": "2", "pincee": "2"}
	for unit, q := range want {
		got, _ := d.Get(Key{IngredientID: garlic.ID, Unit: unit})
		if !dec(q).Equal(got) {
			t.Fatalf("unit %s: expected %s got %s", unit, q, got)
		}
	}
}

func TestComputeMergesPiecesWithWeight(t *testing.T) {
	onion := &models.Ingredient{ID: uuid.New(), Name: "oignon", EstimatedPieceWeightG: decimal.NewNullDecimal(dec("150"))}
	r := recipe(2, line(onion, "1", "piece"), line(onion, "100", "g"))

	d := Compute(menu(2, assign(0, enums.MealSlotDinner, r)))
	if d.Len() != 1 {
		t.Fatalf("expected 1 line got %d", d.Len())
	}
	got, _ := d.Get(Key{IngredientID: onion.ID, Unit: "g"})
	if !dec("250").Equal(got) {
		t.Fatalf("expected 250 g got %s", got)
	}

	views := d.Views()
	if len(views) != 1 {
		t.Fatalf("expected 1 view got %d", len(views))
	}
	if views[0].DisplayUnit != "piece" || views[0].DetailGrams == nil {
		t.Fatalf("expected piece display with gram detail got %+v", views[0])
	}
}

func TestComputeOrdersByDayThenSlot(t *testing.T) {
	a := &models.Ingredient{ID: uuid.New(), Name: "a"}
	b := &models.Ingredient{ID: uuid.New(), Name: "b"}
	c := &models.Ingredient{ID: uuid.New(), Name: "c"}

	d := Compute(menu(2,
		assign(1, enums.MealSlotBreakfast, recipe(2, line(c, "1", "g"))),
		assign(0, enums.MealSlotDinner, recipe(2, line(b, "1", "g"))),
		assign(0, enums.MealSlotBreakfast, recipe(2, line(a, "1", "g"))),
	))

	lines := d.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines got %d", len(lines))
	}
	for i, want := range []uuid.UUID{a.ID, b.ID, c.ID} {
		if lines[i].IngredientID != want {
			t.Fatalf("line %d: expected %s got %s", i, want, lines[i].IngredientID)
		}
	}
}

func TestComputeDefaultsHeadcount(t *testing.T) {
	carrot := &models.Ingredient{ID: uuid.New()}
	d := Compute(menu(0, assign(0, enums.MealSlotLunch, recipe(4, line(carrot, "400", "g")))))
	got, _ := d.Get(Key{IngredientID: carrot.ID, Unit: "g"})
	if !dec("200").Equal(got) {
		t.Fatalf("expected 200 got %s", got)
	}
}

type fakeMenuLoader struct {
	getFn func(ctx context.Context, ownerID, id uuid.UUID) (*models.Menu, error)
}

func (f fakeMenuLoader) GetMenu(ctx context.Context, ownerID, id uuid.UUID) (*models.Menu, error) {
	return f.getFn(ctx, ownerID, id)
}

func TestAggregatorMapsErrors(t *testing.T) {
	agg, err := NewAggregator(fakeMenuLoader{getFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Menu, error) {
		return nil, gorm.ErrRecordNotFound
	}})
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	_, _, err = agg.ForMenu(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found got %v", err)
	}

	agg, _ = NewAggregator(fakeMenuLoader{getFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Menu, error) {
		return nil, errors.New("db down")
	}})
	_, _, err = agg.ForMenu(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error got %v", err)
	}

	if _, err := NewAggregator(nil); err == nil {
		t.Fatal("expected error for nil loader")
	}
}

func TestAggregatorAgainstDatabase(t *testing.T) {
	conn := dbtest.Open(t)
	owner := uuid.New()
	carrot := dbtest.MustCreateIngredient(t, conn, "carotte", "g")
	soup := dbtest.MustCreateRecipe(t, conn, owner, "Soupe", 4, dbtest.Line{Ingredient: carrot, Quantity: "400", Unit: "g"})
	m := dbtest.MustCreateMenu(t, conn, owner, 2, dbtest.Slot{Day: 0, Slot: enums.MealSlotLunch, Recipe: soup})

	agg, err := NewAggregator(catalog.NewRepository(conn))
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	loaded, d, err := agg.ForMenu(context.Background(), owner, m.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if loaded.ID != m.ID {
		t.Fatalf("unexpected menu %s", loaded.ID)
	}
	got, ok := d.Get(Key{IngredientID: carrot.ID, Unit: "g"})
	if !ok || !dec("200").Equal(got) {
		t.Fatalf("expected 200 g got %s (found=%v)", got, ok)
	}
}
