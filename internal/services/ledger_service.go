package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

// LedgerService records ingredient purchases and waste events. Plain
// append-and-list persistence; nothing derived hangs off these rows.
type LedgerService struct {
	db core.DbClient
}

func NewLedgerService(db core.DbClient) *LedgerService {
	return &LedgerService{db: db}
}

func (s *LedgerService) RecordPurchase(ctx context.Context, p *models.Purchase) (*models.Purchase, error) {
	if err := validateQuantity(p.Quantity); err != nil {
		return nil, err
	}
	if p.Cost < 0 || math.IsNaN(p.Cost) || math.IsInf(p.Cost, 0) {
		return nil, core.NewFieldError("cost", "must be a non-negative number")
	}
	if _, err := s.db.GetIngredientByID(ctx, p.IngredientID); err != nil {
		return nil, err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = time.Now()
	}
	if err := s.db.CreatePurchase(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *LedgerService) ListPurchases(ctx context.Context, ingredientID string) ([]models.Purchase, error) {
	return s.db.ListPurchases(ctx, ingredientID)
}

func (s *LedgerService) DeletePurchase(ctx context.Context, id string) error {
	return s.db.DeletePurchase(ctx, id)
}

func (s *LedgerService) RecordWaste(ctx context.Context, ev *models.WasteEvent) (*models.WasteEvent, error) {
	if err := validateQuantity(ev.Quantity); err != nil {
		return nil, err
	}
	if _, err := s.db.GetIngredientByID(ctx, ev.IngredientID); err != nil {
		return nil, err
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	if err := s.db.CreateWasteEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *LedgerService) ListWasteEvents(ctx context.Context, ingredientID string) ([]models.WasteEvent, error) {
	return s.db.ListWasteEvents(ctx, ingredientID)
}

func (s *LedgerService) DeleteWasteEvent(ctx context.Context, id string) error {
	return s.db.DeleteWasteEvent(ctx, id)
}

func validateQuantity(q float64) error {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return core.NewFieldError("quantity", "must be a positive number")
	}
	return nil
}
