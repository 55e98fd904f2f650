package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalghefa/ecologic-backend/internal/core"
	db "github.com/aalghefa/ecologic-backend/internal/core/database"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

func ptr(v float64) *float64 { return &v }

// seedKitchen loads a dish plus beef (2.0 kgCO2e/kg) and rice (1.5) into a
// fresh memory store.
func seedKitchen(t *testing.T) (*db.MemoryClient, *EmissionsService) {
	t.Helper()
	ctx := context.Background()
	store := db.NewMemoryClient()

	require.NoError(t, store.CreateDish(ctx, &models.Dish{ID: "dish-1", Name: "Beef Bowl"}))
	require.NoError(t, store.CreateIngredient(ctx, &models.Ingredient{ID: "beef", Name: "Beef", KgCO2ePerKg: ptr(2.0)}))
	require.NoError(t, store.CreateIngredient(ctx, &models.Ingredient{ID: "rice", Name: "Rice", KgCO2ePerKg: ptr(1.5)}))
	require.NoError(t, store.CreateIngredient(ctx, &models.Ingredient{ID: "mystery-herb", Name: "Mystery Herb"}))

	return store, NewEmissionsService(store)
}

func storedTotal(t *testing.T, store *db.MemoryClient, dishID string) float64 {
	t.Helper()
	d, err := store.GetDishByID(context.Background(), dishID)
	require.NoError(t, err)
	return d.EmissionsTotal
}

func TestSetIngredient_RecomputesAndPersists(t *testing.T) {
	ctx := context.Background()
	store, svc := seedKitchen(t)

	total, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "beef", Quantity: 500, Unit: models.UnitGram,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.InDelta(t, 1.0, storedTotal(t, store, "dish-1"), 1e-9)

	total, err = svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "rice", Quantity: 1, Unit: models.UnitKilogram,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, total, 1e-9)
	assert.InDelta(t, 2.5, storedTotal(t, store, "dish-1"), 1e-9)
}

func TestSetIngredient_UpsertReplacesQuantity(t *testing.T) {
	ctx := context.Background()
	store, svc := seedKitchen(t)

	_, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "beef", Quantity: 500, Unit: models.UnitGram,
	})
	require.NoError(t, err)

	total, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "beef", Quantity: 250, Unit: models.UnitGram,
	})
	require.NoError(t, err)

	// 0.25 * 2.0, not the sum of both writes.
	assert.InDelta(t, 0.5, total, 1e-9)
	assert.InDelta(t, 0.5, storedTotal(t, store, "dish-1"), 1e-9)
}

func TestRemoveIngredient_RecomputesAndPersists(t *testing.T) {
	ctx := context.Background()
	store, svc := seedKitchen(t)

	_, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "beef", Quantity: 500, Unit: models.UnitGram,
	})
	require.NoError(t, err)
	_, err = svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "rice", Quantity: 1, Unit: models.UnitKilogram,
	})
	require.NoError(t, err)

	total, err := svc.RemoveIngredient(ctx, "dish-1", "beef")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, total, 1e-9)
	assert.InDelta(t, 1.5, storedTotal(t, store, "dish-1"), 1e-9)
}

func TestRemoveIngredient_MissingLink(t *testing.T) {
	ctx := context.Background()
	_, svc := seedKitchen(t)

	_, err := svc.RemoveIngredient(ctx, "dish-1", "beef")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSetIngredient_OtherDishesUnaffected(t *testing.T) {
	ctx := context.Background()
	store, svc := seedKitchen(t)
	require.NoError(t, store.CreateDish(ctx, &models.Dish{ID: "dish-2", Name: "Rice Bowl"}))

	_, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-2", IngredientID: "rice", Quantity: 2, Unit: models.UnitKilogram,
	})
	require.NoError(t, err)

	_, err = svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "beef", Quantity: 500, Unit: models.UnitGram,
	})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, storedTotal(t, store, "dish-2"), 1e-9)
	assert.InDelta(t, 1.0, storedTotal(t, store, "dish-1"), 1e-9)
}

func TestSetIngredient_UnratedContributesZero(t *testing.T) {
	ctx := context.Background()
	store, svc := seedKitchen(t)

	_, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "beef", Quantity: 500, Unit: models.UnitGram,
	})
	require.NoError(t, err)

	total, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "mystery-herb", Quantity: 100, Unit: models.UnitGram,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.InDelta(t, 1.0, storedTotal(t, store, "dish-1"), 1e-9)
}

func TestSetIngredient_UnknownDishOrIngredient(t *testing.T) {
	ctx := context.Background()
	_, svc := seedKitchen(t)

	_, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "ghost", IngredientID: "beef", Quantity: 1, Unit: models.UnitKilogram,
	})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "ghost", Quantity: 1, Unit: models.UnitKilogram,
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSetIngredient_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	_, svc := seedKitchen(t)

	for _, qty := range []float64{0, -1} {
		_, err := svc.SetIngredient(ctx, &models.DishIngredient{
			DishID: "dish-1", IngredientID: "beef", Quantity: qty, Unit: models.UnitGram,
		})
		fe, ok := core.IsFieldError(err)
		require.True(t, ok, "quantity %v should be rejected", qty)
		assert.Equal(t, "quantity", fe.Field)
	}
}

func TestBreakdown(t *testing.T) {
	ctx := context.Background()
	_, svc := seedKitchen(t)

	_, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "beef", Quantity: 500, Unit: models.UnitGram,
	})
	require.NoError(t, err)
	_, err = svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "mystery-herb", Quantity: 100, Unit: models.UnitGram,
	})
	require.NoError(t, err)

	b, err := svc.Breakdown(ctx, "dish-1")
	require.NoError(t, err)
	assert.Equal(t, "dish-1", b.DishID)
	assert.InDelta(t, 1.0, b.TotalKgCO2, 1e-9)
	require.Len(t, b.Items, 2)

	// Items come back sorted by ingredient name.
	assert.Equal(t, "Beef", b.Items[0].IngredientName)
	assert.InDelta(t, 1.0, b.Items[0].KgCO2e, 1e-9)
	assert.Equal(t, "Mystery Herb", b.Items[1].IngredientName)
	assert.True(t, b.Items[1].Unrated)
}

func TestRecomputeForIngredient(t *testing.T) {
	ctx := context.Background()
	store, svc := seedKitchen(t)
	require.NoError(t, store.CreateDish(ctx, &models.Dish{ID: "dish-2", Name: "Rice Bowl"}))

	_, err := svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "rice", Quantity: 1, Unit: models.UnitKilogram,
	})
	require.NoError(t, err)
	_, err = svc.SetIngredient(ctx, &models.DishIngredient{
		DishID: "dish-2", IngredientID: "rice", Quantity: 2, Unit: models.UnitKilogram,
	})
	require.NoError(t, err)

	// The factor changes underneath both dishes.
	require.NoError(t, store.UpdateIngredient(ctx, &models.Ingredient{ID: "rice", Name: "Rice", KgCO2ePerKg: ptr(3.0)}))
	require.NoError(t, svc.RecomputeForIngredient(ctx, "rice"))

	assert.InDelta(t, 3.0, storedTotal(t, store, "dish-1"), 1e-9)
	assert.InDelta(t, 6.0, storedTotal(t, store, "dish-2"), 1e-9)
}
