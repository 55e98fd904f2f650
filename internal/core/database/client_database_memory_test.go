package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

func seedDishAndIngredient(t *testing.T, c *MemoryClient) {
	t.Helper()
	ctx := context.Background()
	f := 2.0
	require.NoError(t, c.CreateDish(ctx, &models.Dish{ID: "dish-1", Name: "Grilled Salmon"}))
	require.NoError(t, c.CreateIngredient(ctx, &models.Ingredient{ID: "ing-1", Name: "Salmon", KgCO2ePerKg: &f}))
}

func TestMemoryClient_UpsertLinkOverwrites(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	seedDishAndIngredient(t, c)

	require.NoError(t, c.UpsertDishIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "ing-1", Quantity: 200, Unit: models.UnitGram,
	}))
	require.NoError(t, c.UpsertDishIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "ing-1", Quantity: 350, Unit: models.UnitGram,
	}))

	links, err := c.ListDishIngredients(ctx, "dish-1")
	require.NoError(t, err)
	require.Len(t, links, 1, "one row per (dish, ingredient) pair")
	assert.Equal(t, 350.0, links[0].Quantity)
	assert.Equal(t, "Salmon", links[0].IngredientName)
	require.NotNil(t, links[0].KgCO2ePerKg)
	assert.Equal(t, 2.0, *links[0].KgCO2ePerKg)
}

func TestMemoryClient_DeleteDishCascadesLinks(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	seedDishAndIngredient(t, c)

	require.NoError(t, c.UpsertDishIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "ing-1", Quantity: 200, Unit: models.UnitGram,
	}))
	require.NoError(t, c.DeleteDish(ctx, "dish-1"))

	links, err := c.ListDishIngredients(ctx, "dish-1")
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestMemoryClient_DeleteIngredientCascades(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	seedDishAndIngredient(t, c)

	require.NoError(t, c.UpsertDishIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "ing-1", Quantity: 200, Unit: models.UnitGram,
	}))
	require.NoError(t, c.DeleteIngredient(ctx, "ing-1"))

	links, err := c.ListDishIngredients(ctx, "dish-1")
	require.NoError(t, err)
	assert.Empty(t, links)

	dishIDs, err := c.ListDishIDsByIngredient(ctx, "ing-1")
	require.NoError(t, err)
	assert.Empty(t, dishIDs)
}

func TestMemoryClient_NotFound(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	_, err := c.GetDishByID(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = c.GetIngredientByID(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.ErrorIs(t, c.DeleteDish(ctx, "missing"), core.ErrNotFound)
	assert.ErrorIs(t, c.DeleteDishIngredient(ctx, "missing", "missing"), core.ErrNotFound)
	assert.ErrorIs(t, c.UpdateDishEmissionsTotal(ctx, "missing", 1), core.ErrNotFound)
}

func TestMemoryClient_ListDishIDsByIngredient(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	seedDishAndIngredient(t, c)
	require.NoError(t, c.CreateDish(ctx, &models.Dish{ID: "dish-2", Name: "Salmon Tartare"}))

	require.NoError(t, c.UpsertDishIngredient(ctx, &models.DishIngredient{
		DishID: "dish-1", IngredientID: "ing-1", Quantity: 200, Unit: models.UnitGram,
	}))
	require.NoError(t, c.UpsertDishIngredient(ctx, &models.DishIngredient{
		DishID: "dish-2", IngredientID: "ing-1", Quantity: 120, Unit: models.UnitGram,
	}))

	dishIDs, err := c.ListDishIDsByIngredient(ctx, "ing-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"dish-1", "dish-2"}, dishIDs)
}
