package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/core/emissions"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

// recomputeWorkers caps the fan-out when one ingredient change touches many
// dishes.
const recomputeWorkers = 4

// EmissionsService owns every mutation of dish-ingredient links and the
// recompute-and-persist step that must follow each one. The stored dish
// total is only ever written here, as a full re-sum over the current links.
//
// Each dish's read-recompute-write sequence runs under that dish's own lock
// so concurrent mutations to one dish serialize without blocking unrelated
// dishes.
type EmissionsService struct {
	db    core.DbClient
	locks dishLocks
}

func NewEmissionsService(db core.DbClient) *EmissionsService {
	return &EmissionsService{db: db}
}

// SetIngredient upserts the (dish, ingredient) link and returns the freshly
// recomputed and persisted dish total.
func (s *EmissionsService) SetIngredient(ctx context.Context, link *models.DishIngredient) (float64, error) {
	if err := validateQuantity(link.Quantity); err != nil {
		return 0, err
	}

	if _, err := s.db.GetDishByID(ctx, link.DishID); err != nil {
		return 0, err
	}
	if _, err := s.db.GetIngredientByID(ctx, link.IngredientID); err != nil {
		return 0, err
	}

	unlock := s.locks.lock(link.DishID)
	defer unlock()

	if err := s.db.UpsertDishIngredient(ctx, link); err != nil {
		return 0, err
	}
	return s.recomputeLocked(ctx, link.DishID)
}

// RemoveIngredient deletes the link and returns the recomputed total.
func (s *EmissionsService) RemoveIngredient(ctx context.Context, dishID, ingredientID string) (float64, error) {
	if _, err := s.db.GetDishByID(ctx, dishID); err != nil {
		return 0, err
	}

	unlock := s.locks.lock(dishID)
	defer unlock()

	if err := s.db.DeleteDishIngredient(ctx, dishID, ingredientID); err != nil {
		return 0, err
	}
	return s.recomputeLocked(ctx, dishID)
}

// Links returns the dish's current ingredient links with joined ingredient
// names and factors.
func (s *EmissionsService) Links(ctx context.Context, dishID string) ([]models.DishIngredientDetail, error) {
	if _, err := s.db.GetDishByID(ctx, dishID); err != nil {
		return nil, err
	}
	return s.db.ListDishIngredients(ctx, dishID)
}

// Breakdown returns the live per-ingredient contributions for one dish,
// computed from the current links rather than the stored total.
func (s *EmissionsService) Breakdown(ctx context.Context, dishID string) (models.DishEmissions, error) {
	if _, err := s.db.GetDishByID(ctx, dishID); err != nil {
		return models.DishEmissions{}, err
	}
	links, err := s.db.ListDishIngredients(ctx, dishID)
	if err != nil {
		return models.DishEmissions{}, err
	}
	return emissions.Breakdown(dishID, links), nil
}

// RecomputeForIngredient refreshes every dish that links the ingredient.
// Call it after the ingredient's emissions factor changes.
func (s *EmissionsService) RecomputeForIngredient(ctx context.Context, ingredientID string) error {
	dishIDs, err := s.db.ListDishIDsByIngredient(ctx, ingredientID)
	if err != nil {
		return err
	}
	return s.RecomputeDishes(ctx, dishIDs)
}

// RecomputeDishes re-derives and persists the totals for the given dishes,
// a bounded number at a time.
func (s *EmissionsService) RecomputeDishes(ctx context.Context, dishIDs []string) error {
	if len(dishIDs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recomputeWorkers)
	for _, dishID := range dishIDs {
		g.Go(func() error {
			unlock := s.locks.lock(dishID)
			defer unlock()
			total, err := s.recomputeLocked(gctx, dishID)
			if err != nil {
				return fmt.Errorf("recompute dish %s: %w", dishID, err)
			}
			log.Debug().Str("dish_id", dishID).Float64("total_kg_co2e", total).Msg("dish emissions recomputed")
			return nil
		})
	}
	return g.Wait()
}

// recomputeLocked re-sums the dish total from its current links and writes
// it back. The caller must hold the dish lock.
func (s *EmissionsService) recomputeLocked(ctx context.Context, dishID string) (float64, error) {
	links, err := s.db.ListDishIngredients(ctx, dishID)
	if err != nil {
		return 0, err
	}
	total := emissions.Total(links)
	if err := s.db.UpdateDishEmissionsTotal(ctx, dishID, total); err != nil {
		return 0, err
	}
	return total, nil
}

// dishLocks hands out one mutex per dish ID.
type dishLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *dishLocks) lock(dishID string) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	dl, ok := l.m[dishID]
	if !ok {
		dl = &sync.Mutex{}
		l.m[dishID] = dl
	}
	l.mu.Unlock()

	dl.Lock()
	return dl.Unlock
}
