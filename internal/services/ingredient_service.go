package services

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

// IngredientService manages the ingredient catalog. A factor change or an
// ingredient removal invalidates the stored totals of every dish that links
// the ingredient, so those mutations fan out a recompute before returning.
type IngredientService struct {
	db        core.DbClient
	emissions *EmissionsService
}

func NewIngredientService(db core.DbClient, emissions *EmissionsService) *IngredientService {
	return &IngredientService{db: db, emissions: emissions}
}

func (s *IngredientService) Create(ctx context.Context, ing *models.Ingredient) (*models.Ingredient, error) {
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}
	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	if err := s.db.CreateIngredient(ctx, ing); err != nil {
		return nil, err
	}
	return s.db.GetIngredientByID(ctx, ing.ID)
}

func (s *IngredientService) Get(ctx context.Context, id string) (*models.Ingredient, error) {
	return s.db.GetIngredientByID(ctx, id)
}

func (s *IngredientService) List(ctx context.Context) ([]models.Ingredient, error) {
	return s.db.ListIngredients(ctx)
}

// Update writes the ingredient and refreshes the totals of every dish using
// it, since the emissions factor may just have changed.
func (s *IngredientService) Update(ctx context.Context, ing *models.Ingredient) (*models.Ingredient, error) {
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}
	if err := s.db.UpdateIngredient(ctx, ing); err != nil {
		return nil, err
	}
	if err := s.emissions.RecomputeForIngredient(ctx, ing.ID); err != nil {
		return nil, err
	}
	return s.db.GetIngredientByID(ctx, ing.ID)
}

// Delete removes the ingredient. Its links cascade away with it, so the
// affected dish set is captured first and those totals recomputed after.
func (s *IngredientService) Delete(ctx context.Context, id string) error {
	affected, err := s.db.ListDishIDsByIngredient(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteIngredient(ctx, id); err != nil {
		return err
	}
	return s.emissions.RecomputeDishes(ctx, affected)
}

func validateIngredient(ing *models.Ingredient) error {
	if ing == nil {
		return core.NewFieldError("ingredient", "missing body")
	}
	if strings.TrimSpace(ing.Name) == "" {
		return core.NewFieldError("name", "must not be empty")
	}
	if f := ing.KgCO2ePerKg; f != nil {
		if *f < 0 || math.IsNaN(*f) || math.IsInf(*f, 0) {
			return core.NewFieldError("kg_co2e_per_kg", "must be a non-negative number")
		}
	}
	return nil
}
