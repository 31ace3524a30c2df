// Package inventory records physical stock counts and realigns the stock
// ledger with what was actually found.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/mealplanner-backend/internal/stock"
	"github.com/angelmondragon/mealplanner-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
	"github.com/angelmondragon/mealplanner-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ingredientLoader interface {
	FindIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Ingredient, error)
}

type Service interface {
	Record(ctx context.Context, userID uuid.UUID, input RecordInput) (*RecordView, error)
	List(ctx context.Context, userID uuid.UUID) ([]RecordSummary, error)
	Get(ctx context.Context, userID, recordID uuid.UUID) (*RecordView, error)
	Delete(ctx context.Context, userID, recordID uuid.UUID) error
}

// ServiceParams configure the inventory service. Metrics is optional.
type ServiceParams struct {
	Repo    *Repository
	Tx      txRunner
	Catalog ingredientLoader
	Stock   stock.Service
	Metrics *metrics.InventoryMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	tx      txRunner
	catalog ingredientLoader
	stock   stock.Service
	metrics *metrics.InventoryMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("inventory repository required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Catalog == nil:
		return nil, fmt.Errorf("ingredient loader required")
	case params.Stock == nil:
		return nil, fmt.Errorf("stock ledger required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		catalog: params.Catalog,
		stock:   params.Stock,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// RecordInput is one physical count. Ingredients absent from Counts are left
// untouched.
type RecordInput struct {
	Notes  string
	Counts map[uuid.UUID]decimal.Decimal
}

type LineView struct {
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Theoretical    decimal.Decimal `json:"theoretical"`
	Counted        decimal.Decimal `json:"counted"`
	Variance       decimal.Decimal `json:"variance"`
	Unit           string          `json:"unit"`
}

type RecordView struct {
	ID            uuid.UUID  `json:"id"`
	Notes         string     `json:"notes"`
	SurplusCount  int        `json:"surplus_count"`
	ShortageCount int        `json:"shortage_count"`
	UpdatedCount  int        `json:"updated_count"`
	Lines         []LineView `json:"lines"`
	CreatedAt     time.Time  `json:"created_at"`
}

type RecordSummary struct {
	ID            uuid.UUID `json:"id"`
	Notes         string    `json:"notes"`
	SurplusCount  int       `json:"surplus_count"`
	ShortageCount int       `json:"shortage_count"`
	UpdatedCount  int       `json:"updated_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Record compares every counted ingredient against the ledger, persists the
// variances, and overwrites the stock entries that differ.
func (s *service) Record(ctx context.Context, userID uuid.UUID, input RecordInput) (*RecordView, error) {
	if len(input.Counts) == 0 {
		return nil, pkgerrors.Validation("invalid inventory", pkgerrors.FieldErrors{"counts": "at least one count is required"})
	}

	ids := make([]uuid.UUID, 0, len(input.Counts))
	for id := range input.Counts {
		ids = append(ids, id)
	}
	ings, err := s.catalog.FindIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredients")
	}
	if err := validateCounts(input.Counts, ings); err != nil {
		return nil, err
	}
	snapshot, err := s.stock.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := ings[ids[i]].Name, ings[ids[j]].Name
		if a != b {
			return a < b
		}
		return ids[i].String() < ids[j].String()
	})

	record := &models.InventoryRecord{UserID: userID, Notes: strings.TrimSpace(input.Notes)}
	for _, id := range ids {
		ing := ings[id]
		counted := input.Counts[id]
		line := models.InventoryRecordLine{
			IngredientID: id,
			Ingredient:   ing,
			Theoretical:  decimal.Zero,
			Counted:      counted,
			Unit:         ing.BaseUnit,
		}
		if entry := snapshot[id]; entry != nil {
			line.Theoretical = entry.Quantity
			line.Unit = entry.Unit
		}
		line.Variance = counted.Sub(line.Theoretical)
		switch line.Variance.Sign() {
		case 1:
			record.SurplusCount++
		case -1:
			record.ShortageCount++
		}
		record.Lines = append(record.Lines, line)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ledger := s.stock.WithTx(tx)
		for i := range record.Lines {
			line := &record.Lines[i]
			if line.Variance.IsZero() {
				continue
			}
			if _, err := ledger.Overwrite(ctx, userID, line.Ingredient, line.Counted, line.Unit); err != nil {
				return err
			}
			record.UpdatedCount++
		}
		if err := s.repo.WithTx(tx).Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist inventory record")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record inventory")
	}

	s.metrics.ObserveRecord(record.SurplusCount, record.ShortageCount)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"inventory_record_id": record.ID.String(),
		"surplus":             record.SurplusCount,
		"shortage":            record.ShortageCount,
		"updated":             record.UpdatedCount,
	}), "inventory.recorded")
	return toRecordView(record), nil
}

func validateCounts(counts map[uuid.UUID]decimal.Decimal, ings map[uuid.UUID]*models.Ingredient) error {
	var errs error
	fields := pkgerrors.FieldErrors{}
	for id, counted := range counts {
		key := "counts." + id.String()
		if ings[id] == nil {
			fields[key] = "unknown ingredient"
			errs = multierr.Append(errs, fmt.Errorf("ingredient %s not found", id))
			continue
		}
		if counted.IsNegative() {
			fields[key] = "must not be negative"
			errs = multierr.Append(errs, fmt.Errorf("ingredient %s: negative count %s", id, counted))
		}
	}
	if errs == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid inventory counts").WithDetails(fields)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]RecordSummary, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory records")
	}
	out := make([]RecordSummary, 0, len(records))
	for _, r := range records {
		out = append(out, RecordSummary{
			ID:            r.ID,
			Notes:         r.Notes,
			SurplusCount:  r.SurplusCount,
			ShortageCount: r.ShortageCount,
			UpdatedCount:  r.UpdatedCount,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, recordID uuid.UUID) (*RecordView, error) {
	record, err := s.repo.FindByID(ctx, userID, recordID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	sort.SliceStable(record.Lines, func(i, j int) bool {
		return lineName(&record.Lines[i]) < lineName(&record.Lines[j])
	})
	return toRecordView(record), nil
}

func (s *service) Delete(ctx context.Context, userID, recordID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, userID, recordID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory record")
	}
	return nil
}

func lineName(l *models.InventoryRecordLine) string {
	if l.Ingredient == nil {
		return ""
	}
	return l.Ingredient.Name
}

func toRecordView(record *models.InventoryRecord) *RecordView {
	view := &RecordView{
		ID:            record.ID,
		Notes:         record.Notes,
		SurplusCount:  record.SurplusCount,
		ShortageCount: record.ShortageCount,
		UpdatedCount:  record.UpdatedCount,
		Lines:         make([]LineView, 0, len(record.Lines)),
		CreatedAt:     record.CreatedAt,
	}
	for i := range record.Lines {
		l := &record.Lines[i]
		view.Lines = append(view.Lines, LineView{
			IngredientID:   l.IngredientID,
			IngredientName: lineName(l),
			Theoretical:    l.Theoretical,
			Counted:        l.Counted,
			Variance:       l.Variance,
			Unit:           l.Unit,
		})
	}
	return view
}
